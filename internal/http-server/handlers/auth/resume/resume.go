// Package resume реализует HTTP-обработчик возобновления входа по
// идентификатору сессии без ввода пароля.
package resume

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
	"github.com/magabrotheeeer/bonus-tracker/internal/services/auth"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// Service описывает интерфейс бизнес-логики возобновления сессии.
type Service interface {
	Resume(ctx context.Context, sid string) (*auth.LoginResult, error)
}

// Handler управляет HTTP-запросами на возобновление входа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Возобновление входа по сессии
// @Description Проверяет идентификатор сессии и выдает свежий JWT.
// @Tags Auth
// @Produce json
// @Param sid path string true "Идентификатор сессии"
// @Success 200 {object} response.Response "Токен и данные пользователя"
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена или истекла"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /session/{sid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.resume"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := chi.URLParam(r, "sid")
	if sid == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing session id"))
		return
	}

	res, err := h.service.Resume(r.Context(), sid)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) || errors.Is(err, auth.ErrSessionExpired) {
			log.Info("session resume rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("session not found or expired"))
			return
		}
		log.Error("failed to resume session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not resume session"))
		return
	}

	log.Info("session resumed", slog.String("email", res.User.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":       res.Token,
		"session_sid": res.SessionSID,
		"email":       res.User.Email,
		"name":        res.User.Name,
		"team":        res.User.Team,
		"is_admin":    res.User.IsAdmin,
	}))
}
