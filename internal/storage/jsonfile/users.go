package jsonfile

import (
	"context"
	"fmt"
	"sort"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// CreateUser сохраняет нового пользователя; ключом служит email.
func (s *Storage) CreateUser(_ context.Context, user models.User) error {
	const op = "jsonfile.CreateUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc usersDoc
	if err := s.readFile("users.json", &doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, exists := doc.Users[user.Email]; exists {
		return fmt.Errorf("%s: %w", op, storage.ErrDuplicateEmail)
	}
	doc.Users[user.Email] = user
	if err := s.writeFile("users.json", doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUser возвращает пользователя по email.
func (s *Storage) GetUser(_ context.Context, email string) (*models.User, error) {
	const op = "jsonfile.GetUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc usersDoc
	if err := s.readFile("users.json", &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	u, ok := doc.Users[email]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return &u, nil
}

// GetUserBySession ищет пользователя по идентификатору активной сессии.
func (s *Storage) GetUserBySession(_ context.Context, sid string) (*models.User, error) {
	const op = "jsonfile.GetUserBySession"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc usersDoc
	if err := s.readFile("users.json", &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range doc.Users {
		if u.SessionSID != nil && *u.SessionSID == sid {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
}

// UpdateUser перезаписывает запись пользователя целиком.
func (s *Storage) UpdateUser(_ context.Context, user models.User) error {
	const op = "jsonfile.UpdateUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc usersDoc
	if err := s.readFile("users.json", &doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := doc.Users[user.Email]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	doc.Users[user.Email] = user
	if err := s.writeFile("users.json", doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteUser удаляет пользователя и все его записи продаж.
// Две записи в разные документы не атомарны: при сбое между ними
// останутся осиротевшие записи продаж.
func (s *Storage) DeleteUser(_ context.Context, email string) error {
	const op = "jsonfile.DeleteUser"
	s.mu.Lock()
	defer s.mu.Unlock()

	var users usersDoc
	if err := s.readFile("users.json", &users); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, ok := users.Users[email]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	delete(users.Users, email)
	if err := s.writeFile("users.json", users); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var records recordsDoc
	if err := s.readFile("records.json", &records); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	kept := records.Records[:0]
	for _, r := range records.Records {
		if r.Email != email {
			kept = append(kept, r)
		}
	}
	records.Records = kept
	if err := s.writeFile("records.json", records); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает всех пользователей, отсортированных по email.
func (s *Storage) ListUsers(_ context.Context) ([]models.User, error) {
	const op = "jsonfile.ListUsers"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc usersDoc
	if err := s.readFile("users.json", &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users := make([]models.User, 0, len(doc.Users))
	for _, u := range doc.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}
