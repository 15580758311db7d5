// Package list реализует HTTP-обработчик списка объявлений.
// Обычный пользователь видит только адресованные ему и не скрытые
// объявления, администратор с параметром all=1 видит все.
package list

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

// Service описывает интерфейс бизнес-логики объявлений.
type Service interface {
	ListAll(ctx context.Context) ([]models.Message, error)
	ListEligible(ctx context.Context, email string) ([]models.Message, error)
}

// Handler управляет HTTP-запросами списка объявлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список объявлений
// @Description Возвращает объявления для текущего пользователя. Администратор с all=1 получает все объявления.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param all query string false "1 для всех объявлений, только администратор"
// @Success 200 {object} response.Response "Объявления"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /messages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.messages.list"
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

	var (
		msgs []models.Message
		err  error
	)
	role, _ := mware.UserRole(r.Context())
	if r.URL.Query().Get("all") == "1" && role == "admin" {
		msgs, err = h.service.ListAll(r.Context())
	} else {
		msgs, err = h.service.ListEligible(r.Context(), email)
	}
	if err != nil {
		log.Error("failed to list messages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list messages"))
		return
	}

	render.JSON(w, r, response.OKWithData(msgs))
}
