// Package scheduleupdate реализует HTTP-обработчик изменения цен
// существующего прайс-листа.
package scheduleupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// Request — новые цены прайс-листа.
type Request struct {
	Prices map[string]int `json:"prices" validate:"required"`
}

// Service описывает интерфейс бизнес-логики прайс-листов.
type Service interface {
	UpdateSchedule(ctx context.Context, effectiveDate string, prices map[string]int) (*models.BonusConfig, error)
}

// Handler управляет HTTP-запросами изменения прайс-листа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить прайс-лист
// @Description Заменяет цены прайс-листа с указанной датой. Только для администраторов.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "Дата вступления в силу, 2006-01-02"
// @Param request body Request true "Новые цены"
// @Success 200 {object} response.Response "Обновленная конфигурация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Прайс-лист не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /catalog/schedules/{date} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.scheduleupdate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	date := chi.URLParam(r, "date")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	cfg, err := h.service.UpdateSchedule(r.Context(), date, req.Prices)
	if err != nil {
		if errors.Is(err, storage.ErrScheduleNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(storage.ErrScheduleNotFound.Error()))
			return
		}
		log.Error("failed to update schedule", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update schedule"))
		return
	}

	log.Info("schedule updated", slog.String("effective_date", date))
	render.JSON(w, r, response.OKWithData(cfg))
}
