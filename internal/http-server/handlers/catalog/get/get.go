// Package get реализует HTTP-обработчик чтения каталога и прайс-листов.
package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// Service описывает интерфейс чтения конфигурации бонусов.
type Service interface {
	Config(ctx context.Context) (*models.BonusConfig, error)
}

// Handler управляет HTTP-запросами чтения каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог и прайс-листы
// @Description Возвращает товары и прайс-листы, отсортированные по дате.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Конфигурация бонусов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /catalog [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cfg, err := h.service.Config(r.Context())
	if err != nil {
		log.Error("failed to load bonus config", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load catalog"))
		return
	}

	render.JSON(w, r, response.OKWithData(cfg))
}
