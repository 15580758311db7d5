package jsonfile

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// ReplaceDayCounts целиком заменяет записи продаж за (email, date):
// сначала удаляются все существующие записи за этот день, затем
// вставляются переданные. Частичное обновление не поддерживается.
func (s *Storage) ReplaceDayCounts(_ context.Context, email, date string, records []models.SalesRecord) error {
	const op = "jsonfile.ReplaceDayCounts"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc recordsDoc
	if err := s.readFile("records.json", &doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	kept := doc.Records[:0]
	for _, r := range doc.Records {
		if !(r.Email == email && r.Date == date) {
			kept = append(kept, r)
		}
	}
	doc.Records = append(kept, records...)
	if err := s.writeFile("records.json", doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListRecords возвращает записи продаж, попадающие под фильтр.
func (s *Storage) ListRecords(_ context.Context, filter models.RecordFilter) ([]models.SalesRecord, error) {
	const op = "jsonfile.ListRecords"
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc recordsDoc
	if err := s.readFile("records.json", &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var out []models.SalesRecord
	for _, r := range doc.Records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}
