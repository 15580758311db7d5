// Package update реализует HTTP-обработчик административного
// редактирования пользователя.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/services/auth"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// Request — частичное обновление пользователя администратором.
type Request struct {
	Name      *string       `json:"name,omitempty"`
	Team      *string       `json:"team,omitempty"`
	Color     *string       `json:"color,omitempty"`
	Invisible *bool         `json:"invisible,omitempty"`
	Goals     *models.Goals `json:"goals,omitempty"`
	IsAdmin   *bool         `json:"is_admin,omitempty"`
}

// Service описывает интерфейс бизнес-логики редактирования пользователя.
type Service interface {
	UpdateUserAsAdmin(ctx context.Context, email string, upd auth.AdminUpdate) (*models.User, error)
}

// Handler управляет HTTP-запросами редактирования пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменить пользователя
// @Description Частично обновляет пользователя, включая признак администратора. Только для администраторов.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param email path string true "Email пользователя"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновленный пользователь"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{email} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := chi.URLParam(r, "email")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	user, err := h.service.UpdateUserAsAdmin(r.Context(), email, auth.AdminUpdate{
		ProfileUpdate: auth.ProfileUpdate{
			Name:      req.Name,
			Team:      req.Team,
			Color:     req.Color,
			Invisible: req.Invisible,
			Goals:     req.Goals,
		},
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to update user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update user"))
		return
	}

	log.Info("user updated by admin", slog.String("email", user.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"email":    user.Email,
		"name":     user.Name,
		"team":     user.Team,
		"is_admin": user.IsAdmin,
	}))
}
