// Package auth содержит бизнес-логику регистрации, входа и управления
// пользователями.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bonus-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/palette"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/password"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// ErrInvalidCredentials возвращается при неверном email или пароле.
// Наружу HTTP отдаёт обе причины одинаково; вызывающий код различает их
// через errors.Is со storage.ErrUserNotFound и ErrWrongPassword.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrWrongPassword возвращается, когда пользователь найден, но пароль
// не подошёл. Всегда обёрнут в ErrInvalidCredentials.
var ErrWrongPassword = errors.New("wrong password")

// ErrSessionExpired возвращается при попытке возобновить истёкшую сессию.
var ErrSessionExpired = errors.New("session expired")

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, email string) (*models.User, error)
	GetUserBySession(ctx context.Context, sid string) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, email string) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Service отвечает за регистрацию, авторизацию, сессии и профили.
type Service struct {
	users      UserRepository
	jwtMaker   jwt.Maker
	sessionTTL time.Duration
	log        *slog.Logger
	now        func() time.Time
}

// New создаёт новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, sessionTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		users:      users,
		jwtMaker:   jwtMaker,
		sessionTTL: sessionTTL,
		log:        log,
		now:        time.Now,
	}
}

// Register создаёт нового пользователя. Email приводится к нижнему
// регистру, пароль хэшируется bcrypt, цвет для графиков выбирается
// отличным от уже занятых. Новый пользователь никогда не администратор.
func (s *Service) Register(ctx context.Context, email, name, team, rawPassword string) (*models.User, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	taken := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		taken[u.Color] = struct{}{}
	}

	user := models.User{
		Email:        NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		Team:         strings.TrimSpace(team),
		PasswordHash: hashed,
		Color:        palette.RandomHex(taken),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// LoginResult — результат успешного входа.
type LoginResult struct {
	Token      string
	SessionSID string
	User       *models.User
}

// Login проверяет пароль, выдаёт JWT и открывает сессию.
//
// Легаси-хэш pbkdf2 после успешной проверки заменяется на bcrypt.
// Сессия — непрозрачный uuid с истечением через sessionTTL, хранится
// на записи пользователя и позволяет возобновить вход без пароля.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	const op = "auth.Login"

	user, err := s.users.GetUser(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.log.Info("login attempt for unknown email", slog.String("email", NormalizeEmail(email)))
			return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidCredentials, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		s.log.Info("login attempt with wrong password", slog.String("email", user.Email))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidCredentials, ErrWrongPassword)
	}

	if password.IsLegacy(user.PasswordHash) {
		rehashed, err := password.GetHash(rawPassword)
		if err != nil {
			s.log.Error("failed to rehash legacy password", sl.Err(err))
		} else {
			user.PasswordHash = rehashed
			s.log.Info("legacy password hash upgraded", slog.String("email", user.Email))
		}
	}

	now := s.now().UTC()
	sid := uuid.NewString()
	expires := now.Add(s.sessionTTL)
	user.LastLoginAt = &now
	user.SessionSID = &sid
	user.SessionExpiresAt = &expires

	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.Email, user.Role())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginResult{Token: token, SessionSID: sid, User: user}, nil
}

// Resume возобновляет вход по идентификатору сессии и выдаёт свежий JWT.
func (s *Service) Resume(ctx context.Context, sid string) (*LoginResult, error) {
	const op = "auth.Resume"

	user, err := s.users.GetUserBySession(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !user.SessionActive(s.now().UTC()) {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}
	token, err := s.jwtMaker.GenerateToken(user.Email, user.Role())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LoginResult{Token: token, SessionSID: sid, User: user}, nil
}

// Logout закрывает активную сессию пользователя.
func (s *Service) Logout(ctx context.Context, email string) error {
	const op = "auth.Logout"

	user, err := s.users.GetUser(ctx, NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	user.SessionSID = nil
	user.SessionExpiresAt = nil
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ProfileUpdate — изменяемые пользователем поля профиля.
// Признак администратора через профиль изменить нельзя.
type ProfileUpdate struct {
	Name      *string
	Team      *string
	Color     *string
	Invisible *bool
	Goals     *models.Goals
}

// UpdateProfile применяет частичное обновление профиля.
func (s *Service) UpdateProfile(ctx context.Context, email string, upd ProfileUpdate) (*models.User, error) {
	const op = "auth.UpdateProfile"

	user, err := s.users.GetUser(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Team != nil {
		user.Team = strings.TrimSpace(*upd.Team)
	}
	if upd.Color != nil {
		user.Color = *upd.Color
	}
	if upd.Invisible != nil {
		user.Invisible = *upd.Invisible
	}
	if upd.Goals != nil {
		user.Goals = *upd.Goals
	}
	if err := s.users.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// AdminUpdate — поля, доступные администратору. В отличие от профиля
// здесь можно менять и признак администратора.
type AdminUpdate struct {
	ProfileUpdate
	IsAdmin *bool
}

// UpdateUserAsAdmin применяет административное обновление пользователя.
func (s *Service) UpdateUserAsAdmin(ctx context.Context, email string, upd AdminUpdate) (*models.User, error) {
	const op = "auth.UpdateUserAsAdmin"

	user, err := s.UpdateProfile(ctx, email, upd.ProfileUpdate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if upd.IsAdmin != nil && user.IsAdmin != *upd.IsAdmin {
		user.IsAdmin = *upd.IsAdmin
		if err := s.users.UpdateUser(ctx, *user); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return user, nil
}

// ListUsers возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "auth.ListUsers"

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// DeleteUser удаляет пользователя вместе с его записями продаж.
func (s *Service) DeleteUser(ctx context.Context, email string) error {
	const op = "auth.DeleteUser"

	if err := s.users.DeleteUser(ctx, NormalizeEmail(email)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NormalizeEmail приводит email к каноническому виду ключа хранилища.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
