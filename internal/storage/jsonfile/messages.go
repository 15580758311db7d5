package jsonfile

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// CreateMessage добавляет объявление.
func (s *Storage) CreateMessage(_ context.Context, msg models.Message) error {
	const op = "jsonfile.CreateMessage"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc messagesDoc
	if err := s.readFile("messages.json", &doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	doc.Messages = append(doc.Messages, msg)
	if err := s.writeFile("messages.json", doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetMessage возвращает объявление по id.
func (s *Storage) GetMessage(_ context.Context, id string) (*models.Message, error) {
	const op = "jsonfile.GetMessage"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc messagesDoc
	if err := s.readFile("messages.json", &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, m := range doc.Messages {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
}

// UpdateMessage перезаписывает объявление целиком.
func (s *Storage) UpdateMessage(_ context.Context, msg models.Message) error {
	const op = "jsonfile.UpdateMessage"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc messagesDoc
	if err := s.readFile("messages.json", &doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, m := range doc.Messages {
		if m.ID == msg.ID {
			doc.Messages[i] = msg
			if err := s.writeFile("messages.json", doc); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
}

// DeleteMessage удаляет объявление по id.
func (s *Storage) DeleteMessage(_ context.Context, id string) error {
	const op = "jsonfile.DeleteMessage"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc messagesDoc
	if err := s.readFile("messages.json", &doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	kept := doc.Messages[:0]
	for _, m := range doc.Messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	doc.Messages = kept
	if err := s.writeFile("messages.json", doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListMessages возвращает все объявления, отсортированные по времени создания.
func (s *Storage) ListMessages(_ context.Context) ([]models.Message, error) {
	const op = "jsonfile.ListMessages"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc messagesDoc
	if err := s.readFile("messages.json", &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sort.Slice(doc.Messages, func(i, j int) bool {
		return doc.Messages[i].CreatedAt.Before(doc.Messages[j].CreatedAt)
	})
	return doc.Messages, nil
}

// MarkDismissed добавляет email в список скрывших объявление.
func (s *Storage) MarkDismissed(_ context.Context, id, email string) error {
	const op = "jsonfile.MarkDismissed"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc messagesDoc
	if err := s.readFile("messages.json", &doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, m := range doc.Messages {
		if m.ID == id {
			if !slices.Contains(m.DismissedFor, email) {
				m.DismissedFor = append(m.DismissedFor, email)
				sort.Strings(m.DismissedFor)
				doc.Messages[i] = m
				if err := s.writeFile("messages.json", doc); err != nil {
					return fmt.Errorf("%s: %w", op, err)
				}
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
}
