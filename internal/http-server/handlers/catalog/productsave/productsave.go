// Package productsave реализует HTTP-обработчик замены каталога товаров.
// Удаление товара из каталога не переписывает исторические записи продаж.
package productsave

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// Request — новый состав каталога.
type Request struct {
	Products []models.Product `json:"products" validate:"required,min=1,dive"`
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	SaveProducts(ctx context.Context, products []models.Product) (*models.BonusConfig, error)
}

// Handler управляет HTTP-запросами замены каталога.
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
// @Summary Заменить каталог товаров
// @Description Перезаписывает список товаров. Только для администраторов.
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Новый каталог"
// @Success 200 {object} response.Response "Обновленная конфигурация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /catalog/products [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.productsave"
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

	cfg, err := h.service.SaveProducts(r.Context(), req.Products)
	if err != nil {
		log.Error("failed to save products", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save products"))
		return
	}

	log.Info("catalog products replaced", slog.Int("count", len(req.Products)))
	render.JSON(w, r, response.OKWithData(cfg))
}
