// Package scheduleadd реализует HTTP-обработчик добавления прайс-листа.
package scheduleadd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/services/catalog"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// Request — новый прайс-лист.
type Request struct {
	EffectiveDate string         `json:"effective_date" validate:"required"`
	Prices        map[string]int `json:"prices" validate:"required"`
}

// Service описывает интерфейс бизнес-логики прайс-листов.
type Service interface {
	AddSchedule(ctx context.Context, effectiveDate string, prices map[string]int) (*models.BonusConfig, error)
}

// Handler управляет HTTP-запросами добавления прайс-листа.
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
// @Summary Добавить прайс-лист
// @Description Добавляет прайс-лист с новой датой вступления в силу. Только для администраторов.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Дата и цены"
// @Success 200 {object} response.Response "Обновленная конфигурация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дата"
// @Failure 409 {object} response.ErrorResponse "Прайс-лист с такой датой уже есть"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /catalog/schedules [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.scheduleadd"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	cfg, err := h.service.AddSchedule(r.Context(), req.EffectiveDate, req.Prices)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrInvalidDate):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(catalog.ErrInvalidDate.Error()))
		case errors.Is(err, storage.ErrDuplicateEffectiveDate):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(storage.ErrDuplicateEffectiveDate.Error()))
		default:
			log.Error("failed to add schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not add schedule"))
		}
		return
	}

	log.Info("schedule added", slog.String("effective_date", req.EffectiveDate))
	render.JSON(w, r, response.OKWithData(cfg))
}
