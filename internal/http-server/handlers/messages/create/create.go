// Package create реализует HTTP-обработчик создания объявления.
// Создание публикует событие в брокер для рассылки уведомлений.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/mware"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/services/messages"
)

// Request содержит данные нового объявления.
type Request struct {
	Title        string   `json:"title" validate:"required"`
	Text         string   `json:"text" validate:"required"`
	TargetAll    bool     `json:"target_all"`
	TargetEmails []string `json:"target_emails"`
	TargetTeams  []string `json:"target_teams"`
	Sticky       bool     `json:"sticky"`
}

// Service описывает интерфейс бизнес-логики объявлений.
type Service interface {
	Create(ctx context.Context, in messages.CreateInput) (*models.Message, error)
}

// Handler управляет HTTP-запросами создания объявлений.
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
// @Summary Создать объявление
// @Description Создает объявление и запускает рассылку уведомлений получателям. Только для администраторов.
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Данные объявления"
// @Success 200 {object} response.Response "Созданное объявление"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /messages [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.messages.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sender, _ := mware.UserEmail(r.Context())

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)
		log.Error("invalid request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	msg, err := h.service.Create(r.Context(), messages.CreateInput{
		Title:        req.Title,
		Text:         req.Text,
		TargetAll:    req.TargetAll,
		TargetEmails: req.TargetEmails,
		TargetTeams:  req.TargetTeams,
		Sticky:       req.Sticky,
		Sender:       sender,
	})
	if err != nil {
		log.Error("failed to create message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create message"))
		return
	}

	log.Info("message created", slog.String("id", msg.ID), slog.String("sender", sender))
	render.JSON(w, r, response.OKWithData(msg))
}
