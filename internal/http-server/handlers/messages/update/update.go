// Package update реализует HTTP-обработчик редактирования объявления.
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
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// Request — частичное обновление объявления.
type Request struct {
	Title        *string   `json:"title,omitempty"`
	Text         *string   `json:"text,omitempty"`
	TargetAll    *bool     `json:"target_all,omitempty"`
	TargetEmails *[]string `json:"target_emails,omitempty"`
	TargetTeams  *[]string `json:"target_teams,omitempty"`
	Sticky       *bool     `json:"sticky,omitempty"`
	Active       *bool     `json:"active,omitempty"`
}

// Service описывает интерфейс бизнес-логики объявлений.
type Service interface {
	Get(ctx context.Context, id string) (*models.Message, error)
	Update(ctx context.Context, msg models.Message) error
}

// Handler управляет HTTP-запросами редактирования объявлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Изменить объявление
// @Description Частично обновляет объявление. Только для администраторов.
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID объявления"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновленное объявление"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Объявление не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /messages/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.messages.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	msg, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("message not found"))
			return
		}
		log.Error("failed to load message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update message"))
		return
	}

	if req.Title != nil {
		msg.Title = *req.Title
	}
	if req.Text != nil {
		msg.Text = *req.Text
	}
	if req.TargetAll != nil {
		msg.TargetAll = *req.TargetAll
	}
	if req.TargetEmails != nil {
		msg.TargetEmails = *req.TargetEmails
	}
	if req.TargetTeams != nil {
		msg.TargetTeams = *req.TargetTeams
	}
	if req.Sticky != nil {
		msg.Sticky = *req.Sticky
	}
	if req.Active != nil {
		msg.Active = *req.Active
	}

	if err := h.service.Update(r.Context(), *msg); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("message not found"))
			return
		}
		log.Error("failed to update message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update message"))
		return
	}

	log.Info("message updated", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(msg))
}
