// Package day реализует HTTP-обработчик чтения продаж за один день.
// Ответ содержит количества по всем товарам каталога, включая нулевые.
package day

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/mware"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/services/sales"
)

// Service описывает интерфейс бизнес-логики чтения дневных продаж.
type Service interface {
	DayCounts(ctx context.Context, email, date string) (map[string]int, error)
}

// Handler управляет HTTP-запросами на чтение продаж за день.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Продажи за день
// @Description Возвращает количества текущего пользователя за дату по всем товарам.
// @Tags Sales
// @Produce json
// @Security BearerAuth
// @Param date query string true "Дата в формате 2006-01-02"
// @Success 200 {object} response.Response "Количества по товарам"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /sales/day [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sales.day"
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

	date := r.URL.Query().Get("date")
	counts, err := h.service.DayCounts(r.Context(), email, date)
	if err != nil {
		if errors.Is(err, sales.ErrInvalidDate) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(sales.ErrInvalidDate.Error()))
			return
		}
		log.Error("failed to read day counts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read day counts"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"date":   date,
		"counts": counts,
	}))
}
