// Package diagnostics реализует HTTP-обработчик состояния зависимостей
// сервиса: активный бэкенд хранилища и ошибки подключения к
// инфраструктуре, зафиксированные при старте.
package diagnostics

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// Handler управляет HTTP-запросами диагностики.
type Handler struct {
	log  *slog.Logger
	diag models.Diagnostics
}

// New создает новый Handler с переданными логгером и снимком диагностики.
func New(log *slog.Logger, diag models.Diagnostics) *Handler {
	return &Handler{log: log, diag: diag}
}

// ServeHTTP godoc
// @Summary Диагностика сервиса
// @Description Возвращает активный бэкенд хранилища и ошибки инфраструктуры. Только для администраторов.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Диагностика"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Router /admin/diagnostics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.diagnostics"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	log.Info("diagnostics requested", slog.String("backend", h.diag.Backend))
	render.JSON(w, r, response.OKWithData(h.diag))
}
