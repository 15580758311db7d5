// Package storage определяет контракт хранилища данных приложения.
//
// Контракт реализуют два бэкенда: локальные JSON-файлы (jsonfile) и
// PostgreSQL (postgres). Выбор делается один раз на старте приложения;
// весь остальной код работает только с интерфейсом Store.
package storage

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// Ошибки хранилища, на которые реагирует слой обработчиков.
var (
	// ErrUserNotFound — пользователь с таким email не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail — email уже зарегистрирован.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrMessageNotFound — объявление с таким id не существует.
	ErrMessageNotFound = errors.New("message not found")
	// ErrScheduleNotFound — прайс-лист с такой датой не существует.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrDuplicateEffectiveDate — прайс-лист с такой датой уже есть.
	ErrDuplicateEffectiveDate = errors.New("schedule with this effective date already exists")
	// ErrLastSchedule — удаление последнего прайс-листа запрещено.
	ErrLastSchedule = errors.New("cannot delete the last remaining schedule")
)

// Store — единый контракт хранилища.
//
// Инварианты, которые обязан поддерживать каждый бэкенд:
//   - email пользователя хранится в нижнем регистре;
//   - ReplaceDayCounts целиком заменяет записи за (email, дата);
//   - LoadBonusConfig возвращает schedules, отсортированные по
//     возрастанию effective_date, и непустой список;
//   - SaveBonusConfig отклоняет дубликаты effective_date и пустой список;
//   - DeleteUser удаляет и записи продаж пользователя.
type Store interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, email string) (*models.User, error)
	GetUserBySession(ctx context.Context, sid string) (*models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, email string) error
	ListUsers(ctx context.Context) ([]models.User, error)

	ReplaceDayCounts(ctx context.Context, email, date string, records []models.SalesRecord) error
	ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.SalesRecord, error)

	LoadBonusConfig(ctx context.Context) (*models.BonusConfig, error)
	SaveBonusConfig(ctx context.Context, cfg models.BonusConfig) error

	CreateMessage(ctx context.Context, msg models.Message) error
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	UpdateMessage(ctx context.Context, msg models.Message) error
	DeleteMessage(ctx context.Context, id string) error
	ListMessages(ctx context.Context) ([]models.Message, error)
	MarkDismissed(ctx context.Context, id, email string) error

	Close() error
}
