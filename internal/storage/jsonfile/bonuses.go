package jsonfile

import (
	"context"
	"fmt"
	"sort"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// LoadBonusConfig возвращает каталог и прайс-листы; прайс-листы всегда
// отсортированы по возрастанию effective_date.
func (s *Storage) LoadBonusConfig(_ context.Context) (*models.BonusConfig, error) {
	const op = "jsonfile.LoadBonusConfig"
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg models.BonusConfig
	if err := s.readFile("bonuses.json", &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sortSchedules(&cfg)
	return &cfg, nil
}

// SaveBonusConfig перезаписывает конфигурацию целиком. Пустой список
// прайс-листов и дубликаты effective_date отклоняются.
func (s *Storage) SaveBonusConfig(_ context.Context, cfg models.BonusConfig) error {
	const op = "jsonfile.SaveBonusConfig"
	if len(cfg.Schedules) == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrLastSchedule)
	}
	seen := make(map[string]struct{}, len(cfg.Schedules))
	for _, sch := range cfg.Schedules {
		if _, dup := seen[sch.EffectiveDate]; dup {
			return fmt.Errorf("%s: %w", op, storage.ErrDuplicateEffectiveDate)
		}
		seen[sch.EffectiveDate] = struct{}{}
	}
	sortSchedules(&cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeFile("bonuses.json", cfg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func sortSchedules(cfg *models.BonusConfig) {
	sort.Slice(cfg.Schedules, func(i, j int) bool {
		return cfg.Schedules[i].EffectiveDate < cfg.Schedules[j].EffectiveDate
	})
}
