// Package list реализует HTTP-обработчик списка пользователей для
// администратора, с опциональной выгрузкой в CSV.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	exportlib "github.com/magabrotheeeer/bonus-tracker/internal/export"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/response"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// Service описывает интерфейс бизнес-логики списка пользователей.
type Service interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Handler управляет HTTP-запросами списка пользователей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// userView — представление пользователя в ответе, без хэша пароля
// и данных сессии.
type userView struct {
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Team        string       `json:"team"`
	Invisible   bool         `json:"invisible"`
	Goals       models.Goals `json:"goals"`
	Color       string       `json:"color"`
	IsAdmin     bool         `json:"is_admin"`
	CreatedAt   string       `json:"created_at"`
	LastLoginAt string       `json:"last_login_at,omitempty"`
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Description Возвращает всех пользователей. format=csv отдает файл. Только для администраторов.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param format query string false "csv для выгрузки файлом"
// @Success 200 {object} response.Response "Пользователи"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list users"))
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		data := exportlib.EncodeCSV(exportlib.UserRows(users))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)
		_, _ = w.Write(data)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		v := userView{
			Email:     u.Email,
			Name:      u.Name,
			Team:      u.Team,
			Invisible: u.Invisible,
			Goals:     u.Goals,
			Color:     u.Color,
			IsAdmin:   u.IsAdmin,
			CreatedAt: u.CreatedAt.Format("2006-01-02"),
		}
		if u.LastLoginAt != nil {
			v.LastLoginAt = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		views = append(views, v)
	}
	render.JSON(w, r, response.OKWithData(views))
}
