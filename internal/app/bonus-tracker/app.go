// Package bonustracker собирает основное приложение: хранилище,
// кеш, брокер, сервисы и HTTP-сервер.
//
// Приложение устойчиво к отсутствию инфраструктуры: без Postgres
// работает файловый бэкенд, без Redis кеширование отключается, без
// RabbitMQ объявления не рассылаются по почте. Все деградации
// фиксируются в диагностике и доступны администратору.
package bonustracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/bonus-tracker/internal/cache"
	"github.com/magabrotheeeer/bonus-tracker/internal/config"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/migrations"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	authservice "github.com/magabrotheeeer/bonus-tracker/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/bonus-tracker/internal/services/catalog"
	messagesservice "github.com/magabrotheeeer/bonus-tracker/internal/services/messages"
	salesservice "github.com/magabrotheeeer/bonus-tracker/internal/services/sales"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage/jsonfile"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage/postgres"
)

// App — основное приложение с HTTP-сервером.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  storage.Store
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, diag, err := openStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	var cacheImpl cache.Cache = cache.Noop{}
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", sl.Err(err))
			diag.CacheError = err.Error()
		} else {
			cacheImpl = redisCache
		}
	}

	var (
		publisher messagesservice.Publisher
		conn      *amqp.Connection
		ch        *amqp.Channel
	)
	if cfg.RabbitURL != "" {
		var err error
		conn, ch, err = connectBroker(cfg)
		if err != nil {
			logger.Warn("rabbitmq unavailable, announcements will not be emailed", sl.Err(err))
			diag.BrokerError = err.Error()
		} else {
			publisher = rabbitmq.NewPublisher(ch)
		}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(store, jwtMaker, cfg.SessionTTL, logger)
	catalogService := catalogservice.New(store, cacheImpl, logger)
	salesService := salesservice.New(store, store, catalogService, cfg.Location(), logger)
	messagesService := messagesservice.New(store, store, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, RouteServices{
		Auth:     authService,
		Catalog:  catalogService,
		Sales:    salesService,
		Messages: messagesService,
		Diag:     diag,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
		conn:   conn,
		ch:     ch,
	}, nil
}

// openStorage выбирает бэкенд хранения. Пустая строка подключения или
// недоступный Postgres означают файловый бэкенд в cfg.DataDir.
func openStorage(cfg *config.Config, logger *slog.Logger) (storage.Store, models.Diagnostics, error) {
	diag := models.Diagnostics{Backend: "jsonfile"}

	if cfg.StorageConnectionString != "" {
		db, err := postgres.New(cfg.StorageConnectionString)
		if err == nil {
			err = migrations.Run(db.DB, cfg.MigrationsPath)
		}
		if err == nil {
			diag.Backend = "postgres"
			return db, diag, nil
		}
		logger.Warn("postgres unavailable, falling back to file storage", sl.Err(err))
		diag.StorageError = err.Error()
	}

	fileStore, err := jsonfile.New(cfg.DataDir)
	if err != nil {
		return nil, diag, err
	}
	return fileStore, diag, nil
}

func connectBroker(cfg *config.Config) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetAnnouncementQueues())
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}

// Run запускает HTTP-сервер и ждет отмены контекста для плавной остановки.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.ch != nil {
			_ = a.ch.Close()
		}
		if a.conn != nil {
			_ = a.conn.Close()
		}
		if a.store != nil {
			_ = a.store.Close()
		}
		return err
	}
}
