// Package remove реализует HTTP-обработчик удаления объявления.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// Service описывает интерфейс бизнес-логики объявлений.
type Service interface {
	Delete(ctx context.Context, id string) error
}

// Handler управляет HTTP-запросами удаления объявлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить объявление
// @Description Удаляет объявление навсегда. Только для администраторов.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID объявления"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Объявление не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /messages/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.messages.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("message not found"))
			return
		}
		log.Error("failed to delete message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete message"))
		return
	}

	log.Info("message deleted", slog.String("id", id))
	render.JSON(w, r, response.OK())
}
