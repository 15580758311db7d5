// Package progress реализует HTTP-обработчик прогресса по целям.
package progress

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/mware"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// Service описывает интерфейс бизнес-логики прогресса по целям.
type Service interface {
	GoalProgress(ctx context.Context, email string) (*models.GoalProgress, error)
}

// Handler управляет HTTP-запросами прогресса по целям.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Прогресс по целям
// @Description Текущий бонус против дневной, недельной и месячной цели.
// @Tags Goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Прогресс"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /goals/progress [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.goals.progress"
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

	progress, err := h.service.GoalProgress(r.Context(), email)
	if err != nil {
		log.Error("failed to build goal progress", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build goal progress"))
		return
	}

	render.JSON(w, r, response.OKWithData(progress))
}
