// Package scheduleremove реализует HTTP-обработчик удаления прайс-листа.
// Последний оставшийся прайс-лист удалить нельзя.
package scheduleremove

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
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// Service описывает интерфейс бизнес-логики прайс-листов.
type Service interface {
	RemoveSchedule(ctx context.Context, effectiveDate string) (*models.BonusConfig, error)
}

// Handler управляет HTTP-запросами удаления прайс-листа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить прайс-лист
// @Description Удаляет прайс-лист с указанной датой. Только для администраторов.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param date path string true "Дата вступления в силу, 2006-01-02"
// @Success 200 {object} response.Response "Обновленная конфигурация"
// @Failure 404 {object} response.ErrorResponse "Прайс-лист не найден"
// @Failure 409 {object} response.ErrorResponse "Нельзя удалить последний прайс-лист"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /catalog/schedules/{date} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.scheduleremove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	date := chi.URLParam(r, "date")

	cfg, err := h.service.RemoveSchedule(r.Context(), date)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrScheduleNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(storage.ErrScheduleNotFound.Error()))
		case errors.Is(err, storage.ErrLastSchedule):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(storage.ErrLastSchedule.Error()))
		default:
			log.Error("failed to remove schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not remove schedule"))
		}
		return
	}

	log.Info("schedule removed", slog.String("effective_date", date))
	render.JSON(w, r, response.OKWithData(cfg))
}
