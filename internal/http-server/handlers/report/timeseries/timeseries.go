// Package timeseries реализует HTTP-обработчик графика бонусов команды.
package timeseries

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
	"github.com/magabrotheeeer/bonus-tracker/internal/services/sales"
)

// Request — параметры графика.
type Request struct {
	Team      string `json:"team" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// Service описывает интерфейс бизнес-логики графика.
type Service interface {
	Timeseries(ctx context.Context, team, start, end string) ([]models.TimeseriesPoint, error)
}

// Handler управляет HTTP-запросами графика бонусов.
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
// @Summary График бонусов команды
// @Description Дневные бакеты для периода, часовые для одного дня.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Команда и период"
// @Success 200 {object} response.Response "Точки графика"
// @Failure 400 {object} response.ErrorResponse "Некорректный период"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/timeseries [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.timeseries"
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

	points, err := h.service.Timeseries(r.Context(), req.Team, req.StartDate, req.EndDate)
	if err != nil {
		if errors.Is(err, sales.ErrInvalidDate) || errors.Is(err, sales.ErrInvalidRange) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid report period"))
			return
		}
		log.Error("failed to build timeseries", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build timeseries"))
		return
	}

	render.JSON(w, r, response.OKWithData(points))
}
