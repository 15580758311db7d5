// Package catalog содержит бизнес-логику каталога товаров и прайс-листов.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/bonus-tracker/internal/cache"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

const (
	configCacheKey = "bonus_config"
	configCacheTTL = 5 * time.Minute
)

// ErrInvalidDate — дата вступления в силу не в формате 2006-01-02.
var ErrInvalidDate = errors.New("invalid effective date, expected YYYY-MM-DD")

// ConfigRepository описывает контракт хранилища конфигурации бонусов.
type ConfigRepository interface {
	LoadBonusConfig(ctx context.Context) (*models.BonusConfig, error)
	SaveBonusConfig(ctx context.Context, cfg models.BonusConfig) error
}

// Service отвечает за чтение и изменение каталога и прайс-листов.
// Конфигурация кешируется; любое изменение сбрасывает кеш.
type Service struct {
	repo  ConfigRepository
	cache cache.Cache
	log   *slog.Logger
}

// New создаёт новый экземпляр Service.
func New(repo ConfigRepository, c cache.Cache, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: c, log: log}
}

// Config возвращает текущую конфигурацию бонусов, по возможности из кеша.
func (s *Service) Config(ctx context.Context) (*models.BonusConfig, error) {
	const op = "catalog.Config"

	var cached models.BonusConfig
	found, err := s.cache.Get(configCacheKey, &cached)
	if err != nil {
		s.log.Warn("bonus config cache read failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	cfg, err := s.repo.LoadBonusConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(configCacheKey, cfg, configCacheTTL); err != nil {
		s.log.Warn("bonus config cache write failed", sl.Err(err))
	}
	return cfg, nil
}

// SaveProducts заменяет каталог товаров, не трогая прайс-листы.
// Исторические записи продаж при удалении товара не переписываются.
func (s *Service) SaveProducts(ctx context.Context, products []models.Product) (*models.BonusConfig, error) {
	const op = "catalog.SaveProducts"

	cfg, err := s.repo.LoadBonusConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg.Products = products
	if err := s.save(ctx, *cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// AddSchedule добавляет прайс-лист с новой effective_date.
func (s *Service) AddSchedule(ctx context.Context, effectiveDate string, prices map[string]int) (*models.BonusConfig, error) {
	const op = "catalog.AddSchedule"

	if _, err := time.Parse("2006-01-02", effectiveDate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidDate)
	}

	cfg, err := s.repo.LoadBonusConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, sch := range cfg.Schedules {
		if sch.EffectiveDate == effectiveDate {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrDuplicateEffectiveDate)
		}
	}
	cfg.Schedules = append(cfg.Schedules, models.PriceSchedule{
		EffectiveDate: effectiveDate,
		Prices:        prices,
	})
	if err := s.save(ctx, *cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// UpdateSchedule заменяет цены прайс-листа с указанной датой.
func (s *Service) UpdateSchedule(ctx context.Context, effectiveDate string, prices map[string]int) (*models.BonusConfig, error) {
	const op = "catalog.UpdateSchedule"

	cfg, err := s.repo.LoadBonusConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated := false
	for i := range cfg.Schedules {
		if cfg.Schedules[i].EffectiveDate == effectiveDate {
			cfg.Schedules[i].Prices = prices
			updated = true
			break
		}
	}
	if !updated {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrScheduleNotFound)
	}
	if err := s.save(ctx, *cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// RemoveSchedule удаляет прайс-лист. Последний оставшийся прайс-лист
// удалить нельзя.
func (s *Service) RemoveSchedule(ctx context.Context, effectiveDate string) (*models.BonusConfig, error) {
	const op = "catalog.RemoveSchedule"

	cfg, err := s.repo.LoadBonusConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	idx := -1
	for i := range cfg.Schedules {
		if cfg.Schedules[i].EffectiveDate == effectiveDate {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrScheduleNotFound)
	}
	if len(cfg.Schedules) == 1 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrLastSchedule)
	}
	cfg.Schedules = append(cfg.Schedules[:idx], cfg.Schedules[idx+1:]...)
	if err := s.save(ctx, *cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func (s *Service) save(ctx context.Context, cfg models.BonusConfig) error {
	if err := s.repo.SaveBonusConfig(ctx, cfg); err != nil {
		return err
	}
	if err := s.cache.Invalidate(configCacheKey); err != nil {
		s.log.Warn("bonus config cache invalidation failed", sl.Err(err))
	}
	return nil
}
