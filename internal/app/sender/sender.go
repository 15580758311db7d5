// Package sender собирает сервис почтовой рассылки объявлений:
// подключение к RabbitMQ, потребитель очереди и SMTP-транспорт.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/bonus-tracker/internal/config"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/bonus-tracker/internal/services/sender"
)

// App — приложение рассылки уведомлений об объявлениях.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New инициализирует подключение к брокеру и SMTP-транспорт.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetAnnouncementQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTPConnection, logger)
	senderService := senderservice.New(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди объявлений и работает до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.AnnouncementQueue, a.logger, a.senderService.HandleAnnouncement)
	if err != nil {
		a.logger.Error("failed to start announcements consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
