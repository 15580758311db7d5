// Package update реализует HTTP-обработчик редактирования собственного
// профиля. Признак администратора через профиль изменить нельзя.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/mware"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/services/auth"
)

// Request — частичное обновление собственного профиля.
type Request struct {
	Name      *string       `json:"name,omitempty"`
	Team      *string       `json:"team,omitempty"`
	Color     *string       `json:"color,omitempty"`
	Invisible *bool         `json:"invisible,omitempty"`
	Goals     *models.Goals `json:"goals,omitempty"`
}

// Service описывает интерфейс бизнес-логики профиля.
type Service interface {
	UpdateProfile(ctx context.Context, email string, upd auth.ProfileUpdate) (*models.User, error)
}

// Handler управляет HTTP-запросами редактирования профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменить свой профиль
// @Description Обновляет имя, команду, цвет, видимость и цели текущего пользователя.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновленный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"
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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), email, auth.ProfileUpdate{
		Name:      req.Name,
		Team:      req.Team,
		Color:     req.Color,
		Invisible: req.Invisible,
		Goals:     req.Goals,
	})
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update profile"))
		return
	}

	log.Info("profile updated", slog.String("email", user.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"email":     user.Email,
		"name":      user.Name,
		"team":      user.Team,
		"color":     user.Color,
		"invisible": user.Invisible,
		"goals":     user.Goals,
	}))
}
