// Package dismiss реализует HTTP-обработчик скрытия объявления
// текущим пользователем. Повторное скрытие не является ошибкой.
package dismiss

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/mware"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// Service описывает интерфейс бизнес-логики объявлений.
type Service interface {
	Dismiss(ctx context.Context, messageID, email string) error
}

// Handler управляет HTTP-запросами скрытия объявлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Скрыть объявление
// @Description Помечает объявление скрытым для текущего пользователя.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID объявления"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Объявление не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /messages/{id}/dismiss [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.messages.dismiss"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := mware.UserEmail(r.Context())
	if !ok {
		log.Error("user email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Dismiss(r.Context(), id, email); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("message not found"))
			return
		}
		log.Error("failed to dismiss message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not dismiss message"))
		return
	}

	log.Info("message dismissed", slog.String("id", id), slog.String("email", email))
	render.JSON(w, r, response.OK())
}
