// Package team реализует HTTP-обработчик командного отчета.
package team

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

// Request — параметры командного отчета. Team равный "ALL" включает
// все команды.
type Request struct {
	Team      string `json:"team" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// Service описывает интерфейс бизнес-логики командного отчета.
type Service interface {
	TeamReport(ctx context.Context, team, start, end string) ([]models.TeamRow, error)
}

// Handler управляет HTTP-запросами командного отчета.
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
// @Summary Командный отчет за период
// @Description Строка на каждого видимого участника команды с количествами и бонусом.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Команда и период"
// @Success 200 {object} response.Response "Таблица отчета"
// @Failure 400 {object} response.ErrorResponse "Некорректный период"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/team [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.team"
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

	rows, err := h.service.TeamReport(r.Context(), req.Team, req.StartDate, req.EndDate)
	if err != nil {
		if errors.Is(err, sales.ErrInvalidDate) || errors.Is(err, sales.ErrInvalidRange) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid report period"))
			return
		}
		log.Error("failed to build team report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build team report"))
		return
	}

	render.JSON(w, r, response.OKWithData(rows))
}
