// Package sales содержит бизнес-логику учёта продаж и отчётов:
// сохранение дневных количеств, личные и командные сводки, графики
// и прогресс по целям.
package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/bonus-tracker/internal/bonus"
	"github.com/magabrotheeeer/bonus-tracker/internal/lib/datebounds"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

// TeamAll — значение фильтра команды, включающее всех сотрудников.
const TeamAll = "ALL"

var (
	// ErrInvalidDate — дата не в формате 2006-01-02.
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")
	// ErrNegativeQty — отрицательное количество недопустимо.
	ErrNegativeQty = errors.New("quantity must not be negative")
	// ErrUnknownProduct — код товара отсутствует в каталоге.
	ErrUnknownProduct = errors.New("unknown product code")
	// ErrInvalidRange — начало периода позже его конца.
	ErrInvalidRange = errors.New("start date is after end date")
)

// RecordRepository описывает контракт хранилища записей продаж.
type RecordRepository interface {
	ReplaceDayCounts(ctx context.Context, email, date string, records []models.SalesRecord) error
	ListRecords(ctx context.Context, filter models.RecordFilter) ([]models.SalesRecord, error)
}

// UserRepository — пользователи, нужные для командных отчётов и целей.
type UserRepository interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ConfigProvider отдаёт актуальную конфигурацию бонусов.
type ConfigProvider interface {
	Config(ctx context.Context) (*models.BonusConfig, error)
}

// Service отвечает за записи продаж и все отчётные операции.
type Service struct {
	records RecordRepository
	users   UserRepository
	catalog ConfigProvider
	loc     *time.Location
	log     *slog.Logger
	now     func() time.Time
}

// New создаёт новый экземпляр Service. Часовой пояс loc определяет
// «сегодня» для целей и час для внутридневных графиков.
func New(records RecordRepository, users UserRepository, catalog ConfigProvider,
	loc *time.Location, log *slog.Logger) *Service {
	return &Service{
		records: records,
		users:   users,
		catalog: catalog,
		loc:     loc,
		log:     log,
		now:     time.Now,
	}
}

// SetCounts сохраняет количества по товарам за день, целиком заменяя
// прежние записи за (email, date). Нулевые количества не сохраняются.
func (s *Service) SetCounts(ctx context.Context, email, date string, counts map[string]int) error {
	const op = "sales.SetCounts"

	if _, err := time.Parse(datebounds.DateFormat, date); err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidDate)
	}
	cfg, err := s.catalog.Config(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	index := cfg.ProductIndex()

	recordedAt := s.now().In(s.loc)
	records := make([]models.SalesRecord, 0, len(counts))
	for code, qty := range counts {
		if qty < 0 {
			return fmt.Errorf("%s: %w: %s", op, ErrNegativeQty, code)
		}
		if _, ok := index[code]; !ok {
			return fmt.Errorf("%s: %w: %s", op, ErrUnknownProduct, code)
		}
		if qty == 0 {
			continue
		}
		records = append(records, models.SalesRecord{
			ID:         uuid.NewString(),
			Email:      email,
			Date:       date,
			Product:    code,
			Qty:        qty,
			RecordedAt: recordedAt,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Product < records[j].Product })

	if err := s.records.ReplaceDayCounts(ctx, email, date, records); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DayCounts возвращает количества пользователя за день по всем товарам
// каталога, включая нулевые.
func (s *Service) DayCounts(ctx context.Context, email, date string) (map[string]int, error) {
	const op = "sales.DayCounts"

	if _, err := time.Parse(datebounds.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidDate)
	}
	cfg, err := s.catalog.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	records, err := s.records.ListRecords(ctx, models.RecordFilter{
		Email: &email, StartDate: date, EndDate: date,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bonus.CountsRange(records, date, date, cfg), nil
}

// Summary возвращает личную сводку за период: количества по товарам
// и суммарный бонус.
func (s *Service) Summary(ctx context.Context, email, start, end string) (*models.Summary, error) {
	const op = "sales.Summary"

	if err := validateRange(start, end); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg, err := s.catalog.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	records, err := s.records.ListRecords(ctx, models.RecordFilter{
		Email: &email, StartDate: start, EndDate: end,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Summary{
		Counts: bonus.CountsRange(records, start, end, cfg),
		Total:  bonus.SumRange(records, start, end, cfg),
	}, nil
}

// TeamReport строит командную таблицу за период. Каждая строка
// считается независимо; скрытые пользователи не включаются.
// team равный TeamAll включает все команды.
func (s *Service) TeamReport(ctx context.Context, team, start, end string) ([]models.TeamRow, error) {
	const op = "sales.TeamReport"

	if err := validateRange(start, end); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg, err := s.catalog.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	members, err := s.teamMembers(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	records, err := s.records.ListRecords(ctx, models.RecordFilter{
		StartDate: start, EndDate: end,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	byEmail := groupByEmail(records)

	rows := make([]models.TeamRow, 0, len(members))
	for _, m := range members {
		own := byEmail[m.Email]
		rows = append(rows, models.TeamRow{
			Email:  m.Email,
			Name:   m.Name,
			Team:   m.Team,
			Color:  m.Color,
			Counts: bonus.CountsRange(own, start, end, cfg),
			Total:  bonus.SumRange(own, start, end, cfg),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Total > rows[j].Total })
	return rows, nil
}

// Timeseries строит график бонусов по участникам команды.
// Для периода из одного дня бакеты часовые (по recorded_at), иначе
// дневные; значения накапливаются по каждому участнику отдельно.
// Ключи values — email участников.
func (s *Service) Timeseries(ctx context.Context, team, start, end string) ([]models.TimeseriesPoint, error) {
	const op = "sales.Timeseries"

	if err := validateRange(start, end); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg, err := s.catalog.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	members, err := s.teamMembers(ctx, team)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	records, err := s.records.ListRecords(ctx, models.RecordFilter{
		StartDate: start, EndDate: end,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	memberSet := make(map[string]struct{}, len(members))
	for _, m := range members {
		memberSet[m.Email] = struct{}{}
	}

	var buckets []string
	bucketOf := func(r models.SalesRecord) string { return r.Date }
	if start == end {
		for h := range 24 {
			buckets = append(buckets, fmt.Sprintf("%02d:00", h))
		}
		bucketOf = func(r models.SalesRecord) string {
			return r.RecordedAt.In(s.loc).Format("15:00")
		}
	} else {
		startDay, _ := time.Parse(datebounds.DateFormat, start)
		endDay, _ := time.Parse(datebounds.DateFormat, end)
		buckets = datebounds.DaysBetween(startDay, endDay)
	}

	points := make([]models.TimeseriesPoint, len(buckets))
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b] = i
		points[i] = models.TimeseriesPoint{Bucket: b, Values: make(map[string]int, len(members))}
		for _, m := range members {
			points[i].Values[m.Email] = 0
		}
	}
	for _, r := range records {
		if _, ok := memberSet[r.Email]; !ok {
			continue
		}
		i, ok := index[bucketOf(r)]
		if !ok {
			continue
		}
		points[i].Values[r.Email] += r.Qty * bonus.Resolve(r.Product, r.Date, cfg)
	}
	return points, nil
}

// GoalProgress возвращает прогресс пользователя по дневной, недельной
// и месячной цели. «Сегодня» определяется в часовом поясе приложения,
// неделя начинается с воскресенья.
func (s *Service) GoalProgress(ctx context.Context, email string) (*models.GoalProgress, error) {
	const op = "sales.GoalProgress"

	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg, err := s.catalog.Config(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().In(s.loc)
	today := now.Format(datebounds.DateFormat)
	weekStart, weekEnd := datebounds.WeekBounds(now)
	monthStart, monthEnd := datebounds.MonthBounds(now)

	records, err := s.records.ListRecords(ctx, models.RecordFilter{
		Email:     &email,
		StartDate: monthStart.Format(datebounds.DateFormat),
		EndDate:   monthEnd.Format(datebounds.DateFormat),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Неделя может начинаться в прошлом месяце; добираем недостающие дни.
	if weekStart.Before(monthStart) {
		extra, err := s.records.ListRecords(ctx, models.RecordFilter{
			Email:     &email,
			StartDate: weekStart.Format(datebounds.DateFormat),
			EndDate:   monthStart.AddDate(0, 0, -1).Format(datebounds.DateFormat),
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, extra...)
	}

	return &models.GoalProgress{
		Daily: models.GoalBar{
			Current: bonus.SumRange(records, today, today, cfg),
			Goal:    user.Goals.Daily,
		},
		Weekly: models.GoalBar{
			Current: bonus.SumRange(records,
				weekStart.Format(datebounds.DateFormat),
				weekEnd.Format(datebounds.DateFormat), cfg),
			Goal: user.Goals.Weekly,
		},
		Monthly: models.GoalBar{
			Current: bonus.SumRange(records,
				monthStart.Format(datebounds.DateFormat),
				monthEnd.Format(datebounds.DateFormat), cfg),
			Goal: user.Goals.Monthly,
		},
	}, nil
}

func (s *Service) teamMembers(ctx context.Context, team string) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Invisible {
			continue
		}
		if team != TeamAll && u.Team != team {
			continue
		}
		members = append(members, u)
	}
	return members, nil
}

func validateRange(start, end string) error {
	if _, err := time.Parse(datebounds.DateFormat, start); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse(datebounds.DateFormat, end); err != nil {
		return ErrInvalidDate
	}
	if start > end {
		return ErrInvalidRange
	}
	return nil
}

func groupByEmail(records []models.SalesRecord) map[string][]models.SalesRecord {
	out := make(map[string][]models.SalesRecord)
	for _, r := range records {
		out[r.Email] = append(out[r.Email], r)
	}
	return out
}
