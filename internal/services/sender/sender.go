// Package sender реализует почтовую рассылку объявлений. Сервис
// потребляет события из очереди и отправляет письма адресатам.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/smtp"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// Service отправляет письма об объявлениях через SMTP транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// HandleAnnouncement обрабатывает событие о созданном объявлении:
// рассылает письмо всем адресатам из события.
func (s *Service) HandleAnnouncement(body []byte) error {
	var event models.AnnouncementEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal announcement event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if len(event.Recipients) == 0 {
		s.log.Info("announcement has no recipients", slog.String("message_id", event.MessageID))
		return nil
	}

	subject := "Новое объявление: " + event.Title
	bodyText := event.Text
	if event.Sender != "" {
		bodyText = fmt.Sprintf("%s\n\nОтправитель: %s", event.Text, event.Sender)
	}

	if err := s.sendEmail(event.Recipients, subject, bodyText); err != nil {
		return err
	}
	s.log.Info("announcement emails sent",
		slog.String("message_id", event.MessageID),
		slog.Int("recipients", len(event.Recipients)))
	return nil
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.From(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.From()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}
	return nil
}
