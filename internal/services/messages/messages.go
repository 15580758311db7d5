// Package messages содержит бизнес-логику объявлений: создание,
// адресация, скрытие и публикация событий для почтовой рассылки.
package messages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bonus-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// MessageRepository описывает контракт хранилища объявлений.
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg models.Message) error
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	UpdateMessage(ctx context.Context, msg models.Message) error
	DeleteMessage(ctx context.Context, id string) error
	ListMessages(ctx context.Context) ([]models.Message, error)
	MarkDismissed(ctx context.Context, id, email string) error
}

// UserRepository — пользователи, нужные для адресации объявлений.
type UserRepository interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Publisher публикует событие о созданном объявлении.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service отвечает за объявления и их доставку.
type Service struct {
	repo      MessageRepository
	users     UserRepository
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// New создаёт новый экземпляр Service. publisher может быть nil —
// тогда события не публикуются, объявления остаются только в хранилище.
func New(repo MessageRepository, users UserRepository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// CreateInput — параметры нового объявления.
type CreateInput struct {
	Title        string
	Text         string
	TargetAll    bool
	TargetEmails []string
	TargetTeams  []string
	Sticky       bool
	Sender       string
}

// Create сохраняет объявление и публикует событие с адресатами.
// Недоступность брокера не срывает создание объявления.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Message, error) {
	const op = "messages.Create"

	msg := models.Message{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Text:         in.Text,
		TargetAll:    in.TargetAll,
		TargetEmails: in.TargetEmails,
		TargetTeams:  in.TargetTeams,
		Sticky:       in.Sticky,
		Active:       true,
		CreatedAt:    s.now().UTC(),
		Sender:       in.Sender,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.publisher != nil {
		recipients, err := s.resolveRecipients(ctx, &msg)
		if err != nil {
			s.log.Error("failed to resolve announcement recipients", sl.Err(err))
		} else if len(recipients) > 0 {
			event := models.AnnouncementEvent{
				MessageID:  msg.ID,
				Title:      msg.Title,
				Text:       msg.Text,
				Sender:     msg.Sender,
				Recipients: recipients,
			}
			if err := s.publisher.Publish(rabbitmq.AnnouncementRoutingKey, event); err != nil {
				s.log.Error("failed to publish announcement event", sl.Err(err))
			}
		}
	}
	return &msg, nil
}

// Get возвращает объявление по идентификатору.
func (s *Service) Get(ctx context.Context, id string) (*models.Message, error) {
	const op = "messages.Get"

	msg, err := s.repo.GetMessage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

// Update перезаписывает объявление.
func (s *Service) Update(ctx context.Context, msg models.Message) error {
	const op = "messages.Update"

	if err := s.repo.UpdateMessage(ctx, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет объявление.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "messages.Delete"

	if err := s.repo.DeleteMessage(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAll возвращает все объявления для администратора.
func (s *Service) ListAll(ctx context.Context) ([]models.Message, error) {
	const op = "messages.ListAll"

	list, err := s.repo.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListEligible возвращает объявления, которые должен видеть пользователь:
// активные, не скрытые им и адресованные ему.
func (s *Service) ListEligible(ctx context.Context, email string) ([]models.Message, error) {
	const op = "messages.ListEligible"

	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	all, err := s.repo.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	eligible := make([]models.Message, 0, len(all))
	for _, m := range all {
		if m.EligibleFor(user) {
			eligible = append(eligible, m)
		}
	}
	return eligible, nil
}

// Dismiss скрывает объявление для одного пользователя.
func (s *Service) Dismiss(ctx context.Context, id, email string) error {
	const op = "messages.Dismiss"

	if err := s.repo.MarkDismissed(ctx, id, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// resolveRecipients возвращает email всех пользователей, которым
// адресовано объявление на момент создания.
func (s *Service) resolveRecipients(ctx context.Context, msg *models.Message) ([]string, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	var recipients []string
	for i := range users {
		if msg.EligibleFor(&users[i]) {
			recipients = append(recipients, users[i].Email)
		}
	}
	return recipients, nil
}
