// Package summaryexport реализует HTTP-обработчик выгрузки личной
// сводки текущего пользователя в CSV или XLSX.
package summaryexport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	exportlib "github.com/magabrotheeeer/bonus-tracker/internal/export"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/mware"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/services/sales"
)

// Service описывает интерфейс бизнес-логики личной сводки.
type Service interface {
	Summary(ctx context.Context, email, start, end string) (*models.Summary, error)
}

// ConfigProvider отдаёт каталог товаров для заголовков выгрузки.
type ConfigProvider interface {
	Config(ctx context.Context) (*models.BonusConfig, error)
}

// Handler управляет HTTP-запросами на выгрузку личной сводки.
type Handler struct {
	log     *slog.Logger
	service Service
	catalog ConfigProvider
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, catalog ConfigProvider) *Handler {
	return &Handler{log: log, service: service, catalog: catalog}
}

// ServeHTTP godoc
// @Summary Выгрузка личной сводки
// @Description Возвращает файл сводки текущего пользователя: format=csv (по умолчанию) или format=xlsx.
// @Tags Reports
// @Produce octet-stream
// @Security BearerAuth
// @Param start_date query string true "Начало периода, 2006-01-02"
// @Param end_date query string true "Конец периода, 2006-01-02"
// @Param format query string false "csv или xlsx"
// @Success 200 {file} file "Файл сводки"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/summary/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.summaryexport"
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

	q := r.URL.Query()
	start := q.Get("start_date")
	end := q.Get("end_date")
	format := q.Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("format must be csv or xlsx"))
		return
	}

	summary, err := h.service.Summary(r.Context(), email, start, end)
	if err != nil {
		if errors.Is(err, sales.ErrInvalidDate) || errors.Is(err, sales.ErrInvalidRange) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid report period"))
			return
		}
		log.Error("failed to build summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build summary"))
		return
	}

	cfg, err := h.catalog.Config(r.Context())
	if err != nil {
		log.Error("failed to load bonus config", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load catalog"))
		return
	}

	table := exportlib.SummaryRows(email, summary, cfg.Products)
	filename := fmt.Sprintf("summary-%s-%s", start, end)

	switch format {
	case "xlsx":
		data, err := exportlib.EncodeXLSX("Summary", table)
		if err != nil {
			log.Error("failed to encode xlsx", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not encode summary"))
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.xlsx"`)
		_, _ = w.Write(data)
	default:
		data := exportlib.EncodeCSV(table)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		_, _ = w.Write(data)
	}

	log.Info("summary exported",
		slog.String("email", email), slog.String("format", format))
}
