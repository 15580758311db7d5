package postgres

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// ReplaceDayCounts заменяет все записи продаж пользователя за день
// новым набором в одной транзакции.
func (s *Storage) ReplaceDayCounts(ctx context.Context, email, date string, records []models.SalesRecord) error {
	const op = "postgres.ReplaceDayCounts"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM records WHERE email = $1 AND date = $2::date`
	if _, err = tx.ExecContext(ctx, query, email, date); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query = `INSERT INTO records (id, email, date, product, qty, recorded_at)
			 VALUES ($1, $2, $3::date, $4, $5, $6)`
	for _, r := range records {
		if _, err = tx.ExecContext(ctx, query,
			r.ID, r.Email, r.Date, r.Product, r.Qty, r.RecordedAt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListRecords возвращает записи продаж по фильтру, отсортированные
// по дате, email и коду товара.
func (s *Storage) ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.SalesRecord, error) {
	const op = "postgres.ListRecords"

	query := `SELECT id, email, date::text, product, qty, recorded_at
			  FROM records
			  WHERE date BETWEEN $1::date AND $2::date
			    AND ($3::text IS NULL OR email = $3)
			  ORDER BY date, email, product`
	rows, err := s.DB.QueryContext(ctx, query, filter.StartDate, filter.EndDate, filter.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.SalesRecord
	for rows.Next() {
		var r models.SalesRecord
		if err = rows.Scan(&r.ID, &r.Email, &r.Date, &r.Product, &r.Qty, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
