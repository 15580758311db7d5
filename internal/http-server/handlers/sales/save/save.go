// Package save реализует HTTP-обработчик сохранения дневных продаж.
//
// Сохранение дня идемпотентно: переданные количества целиком заменяют
// прежние записи пользователя за эту дату.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/mware"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/services/sales"
)

// Request — тело запроса сохранения продаж за день.
type Request struct {
	Date   string         `json:"date" validate:"required"`
	Counts map[string]int `json:"counts" validate:"required"`
}

// Service описывает интерфейс бизнес-логики сохранения продаж.
type Service interface {
	SetCounts(ctx context.Context, email, date string, counts map[string]int) error
}

// Handler управляет HTTP-запросами на сохранение продаж.
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
// @Summary Сохранить продажи за день
// @Description Целиком заменяет записи текущего пользователя за дату.
// @Tags Sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Дата и количества по товарам"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или данные"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sales [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sales.save"
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

	email, ok := mware.UserEmail(r.Context())
	if !ok {
		log.Error("user email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.SetCounts(r.Context(), email, req.Date, req.Counts); err != nil {
		switch {
		case errors.Is(err, sales.ErrInvalidDate),
			errors.Is(err, sales.ErrNegativeQty),
			errors.Is(err, sales.ErrUnknownProduct):
			log.Info("rejected day counts", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to save day counts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not save day counts"))
		}
		return
	}

	log.Info("day counts saved",
		slog.String("email", email), slog.String("date", req.Date))
	render.JSON(w, r, response.OK())
}
