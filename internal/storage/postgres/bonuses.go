package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

// LoadBonusConfig возвращает каталог товаров и прайс-листы.
// Прайс-листы отсортированы по возрастанию effective_date.
func (s *Storage) LoadBonusConfig(ctx context.Context) (*models.BonusConfig, error) {
	const op = "postgres.LoadBonusConfig"

	cfg := &models.BonusConfig{}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT code, name, bonus FROM bonus_products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var p models.Product
		if err = rows.Scan(&p.Code, &p.Name, &p.Bonus); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cfg.Products = append(cfg.Products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	schedRows, err := s.DB.QueryContext(ctx,
		`SELECT effective_date::text, prices FROM bonus_schedules ORDER BY effective_date`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = schedRows.Close()
	}()
	for schedRows.Next() {
		var sch models.PriceSchedule
		var prices []byte
		if err = schedRows.Scan(&sch.EffectiveDate, &prices); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal(prices, &sch.Prices); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cfg.Schedules = append(cfg.Schedules, sch)
	}
	if err = schedRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

// SaveBonusConfig перезаписывает каталог и прайс-листы целиком в одной
// транзакции. Пустой список прайс-листов и дубликаты effective_date
// отклоняются.
func (s *Storage) SaveBonusConfig(ctx context.Context, cfg models.BonusConfig) error {
	const op = "postgres.SaveBonusConfig"

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

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM bonus_products`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, p := range cfg.Products {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO bonus_products (code, name, bonus, position) VALUES ($1, $2, $3, $4)`,
			p.Code, p.Name, p.Bonus, i); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM bonus_schedules`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, sch := range cfg.Schedules {
		prices, err := json.Marshal(sch.Prices)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO bonus_schedules (effective_date, prices) VALUES ($1::date, $2)`,
			sch.EffectiveDate, prices); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%s: %w", op, storage.ErrDuplicateEffectiveDate)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
