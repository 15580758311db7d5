// Package bonustracker предоставляет маршруты основного приложения.
package bonustracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/admin/diagnostics"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/auth/login"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/auth/logout"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/auth/register"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/auth/resume"
	catalogget "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/catalog/get"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/catalog/productsave"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/catalog/scheduleadd"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/catalog/scheduleremove"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/catalog/scheduleupdate"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/goals/progress"
	messagecreate "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/messages/create"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/messages/dismiss"
	messagelist "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/messages/list"
	messageremove "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/messages/remove"
	messageupdate "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/messages/update"
	profileupdate "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/profile/update"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/report/export"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/report/summary"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/report/summaryexport"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/report/team"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/report/timeseries"
	salesday "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/sales/day"
	salessave "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/sales/save"
	userlist "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/users/list"
	userremove "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/users/remove"
	userupdate "github.com/magabrotheeeer/bonus-tracker/internal/http-server/handlers/users/update"
	"github.com/magabrotheeeer/bonus-tracker/internal/http-server/mware"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	authservice "github.com/magabrotheeeer/bonus-tracker/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/bonus-tracker/internal/services/catalog"
	messagesservice "github.com/magabrotheeeer/bonus-tracker/internal/services/messages"
	salesservice "github.com/magabrotheeeer/bonus-tracker/internal/services/sales"
)

// RouteServices — сервисы, которые нужны маршрутам приложения.
type RouteServices struct {
	Auth     *authservice.Service
	Catalog  *catalogservice.Service
	Sales    *salesservice.Service
	Messages *messagesservice.Service
	Diag     models.Diagnostics
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, svc RouteServices) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Get("/session/{sid}", resume.New(logger, svc.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(mware.JWTMiddleware(jwtMaker, logger))
			r.Use(mware.RateLimitMiddleware(logger))

			r.Post("/logout", logout.New(logger, svc.Auth).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, svc.Auth).ServeHTTP)

			r.Post("/sales", salessave.New(logger, svc.Sales).ServeHTTP)
			r.Get("/sales/day", salesday.New(logger, svc.Sales).ServeHTTP)

			r.Post("/reports/summary", summary.New(logger, svc.Sales).ServeHTTP)
			r.Post("/reports/team", team.New(logger, svc.Sales).ServeHTTP)
			r.Post("/reports/timeseries", timeseries.New(logger, svc.Sales).ServeHTTP)
			r.Get("/reports/team/export", export.New(logger, svc.Sales, svc.Catalog).ServeHTTP)
			r.Get("/reports/summary/export", summaryexport.New(logger, svc.Sales, svc.Catalog).ServeHTTP)
			r.Get("/goals/progress", progress.New(logger, svc.Sales).ServeHTTP)

			r.Get("/catalog", catalogget.New(logger, svc.Catalog).ServeHTTP)

			r.Get("/messages", messagelist.New(logger, svc.Messages).ServeHTTP)
			r.Post("/messages/{id}/dismiss", dismiss.New(logger, svc.Messages).ServeHTTP)

			// Группа только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(mware.AdminOnly(logger))

				r.Put("/catalog/products", productsave.New(logger, svc.Catalog).ServeHTTP)
				r.Post("/catalog/schedules", scheduleadd.New(logger, svc.Catalog).ServeHTTP)
				r.Put("/catalog/schedules/{date}", scheduleupdate.New(logger, svc.Catalog).ServeHTTP)
				r.Delete("/catalog/schedules/{date}", scheduleremove.New(logger, svc.Catalog).ServeHTTP)

				r.Get("/users", userlist.New(logger, svc.Auth).ServeHTTP)
				r.Put("/users/{email}", userupdate.New(logger, svc.Auth).ServeHTTP)
				r.Delete("/users/{email}", userremove.New(logger, svc.Auth).ServeHTTP)

				r.Post("/messages", messagecreate.New(logger, svc.Messages).ServeHTTP)
				r.Put("/messages/{id}", messageupdate.New(logger, svc.Messages).ServeHTTP)
				r.Delete("/messages/{id}", messageremove.New(logger, svc.Messages).ServeHTTP)

				r.Get("/admin/diagnostics", diagnostics.New(logger, svc.Diag).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
