// Сервис учета бонусов отдела продаж: HTTP API для записей продаж,
// отчетов, каталога бонусов и объявлений.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	bonustracker "github.com/magabrotheeeer/bonus-tracker/internal/app/bonus-tracker"
	"github.com/magabrotheeeer/bonus-tracker/internal/config"
)

// @title Bonus Tracker API
// @version 1.0
// @description API учета продаж и бонусов отдела продаж.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	logger.Info("starting bonus-tracker", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bonustracker.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("app stopped gracefully")
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
