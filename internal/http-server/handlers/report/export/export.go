// Package export реализует HTTP-обработчик выгрузки командного отчета
// в CSV или XLSX.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	exportlib "github.com/magabrotheeeer/bonus-tracker/internal/export"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/services/sales"
)

// Service описывает интерфейс бизнес-логики выгрузки отчета.
type Service interface {
	TeamReport(ctx context.Context, team, start, end string) ([]models.TeamRow, error)
}

// ConfigProvider отдаёт каталог товаров для заголовков выгрузки.
type ConfigProvider interface {
	Config(ctx context.Context) (*models.BonusConfig, error)
}

// Handler управляет HTTP-запросами на выгрузку отчета.
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
// @Summary Выгрузка командного отчета
// @Description Возвращает файл отчета: format=csv (по умолчанию) или format=xlsx.
// @Tags Reports
// @Produce octet-stream
// @Security BearerAuth
// @Param team query string true "Команда или ALL"
// @Param start_date query string true "Начало периода, 2006-01-02"
// @Param end_date query string true "Конец периода, 2006-01-02"
// @Param format query string false "csv или xlsx"
// @Success 200 {file} file "Файл отчета"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/team/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.export"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	team := q.Get("team")
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

	rows, err := h.service.TeamReport(r.Context(), team, start, end)
	if err != nil {
		if errors.Is(err, sales.ErrInvalidDate) || errors.Is(err, sales.ErrInvalidRange) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid report period"))
			return
		}
		log.Error("failed to build team report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build team report"))
		return
	}

	cfg, err := h.catalog.Config(r.Context())
	if err != nil {
		log.Error("failed to load bonus config", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load catalog"))
		return
	}

	table := exportlib.TeamReportRows(rows, cfg.Products)
	filename := fmt.Sprintf("team-report-%s-%s", start, end)

	switch format {
	case "xlsx":
		data, err := exportlib.EncodeXLSX("Report", table)
		if err != nil {
			log.Error("failed to encode xlsx", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not encode report"))
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

	log.Info("team report exported",
		slog.String("team", team), slog.String("format", format))
}
