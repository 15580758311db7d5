package sales

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

type fakeRecordRepo struct {
	records []models.SalesRecord
}

func (r *fakeRecordRepo) ReplaceDayCounts(_ context.Context, email, date string, records []models.SalesRecord) error {
	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.Email != email || rec.Date != date {
			kept = append(kept, rec)
		}
	}
	r.records = append(kept, records...)
	return nil
}

func (r *fakeRecordRepo) ListRecords(_ context.Context, filter models.RecordFilter) ([]models.SalesRecord, error) {
	var out []models.SalesRecord
	for _, rec := range r.records {
		if filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users []models.User
}

func (r *fakeUserRepo) GetUser(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (r *fakeUserRepo) ListUsers(_ context.Context) ([]models.User, error) {
	return r.users, nil
}

type fakeCatalog struct {
	cfg models.BonusConfig
}

func (c *fakeCatalog) Config(_ context.Context) (*models.BonusConfig, error) {
	cfg := c.cfg
	return &cfg, nil
}

func testConfig() models.BonusConfig {
	return models.BonusConfig{
		Products: []models.Product{
			{Code: "X", Name: "X", Bonus: 10},
			{Code: "Y", Name: "Y", Bonus: 5},
		},
		Schedules: []models.PriceSchedule{
			{EffectiveDate: "2024-01-01", Prices: map[string]int{"X": 10, "Y": 5}},
			{EffectiveDate: "2024-07-01", Prices: map[string]int{"X": 15, "Y": 5}},
		},
	}
}

func newTestService(records *fakeRecordRepo, users *fakeUserRepo) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(records, users, &fakeCatalog{cfg: testConfig()}, time.UTC, log)
}

func TestSetCounts_Validation(t *testing.T) {
	s := newTestService(&fakeRecordRepo{}, &fakeUserRepo{})
	ctx := context.Background()

	err := s.SetCounts(ctx, "a@x.com", "01/05/2024", map[string]int{"X": 1})
	assert.ErrorIs(t, err, ErrInvalidDate)

	err = s.SetCounts(ctx, "a@x.com", "2024-05-01", map[string]int{"X": -1})
	assert.ErrorIs(t, err, ErrNegativeQty)

	err = s.SetCounts(ctx, "a@x.com", "2024-05-01", map[string]int{"nope": 1})
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestSetCounts_DropsZeros(t *testing.T) {
	repo := &fakeRecordRepo{}
	s := newTestService(repo, &fakeUserRepo{})
	ctx := context.Background()

	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-05-01", map[string]int{"X": 2, "Y": 0}))
	require.Len(t, repo.records, 1)
	assert.Equal(t, "X", repo.records[0].Product)
	assert.NotEmpty(t, repo.records[0].ID)
}

func TestDayCounts_IncludesZeros(t *testing.T) {
	repo := &fakeRecordRepo{}
	s := newTestService(repo, &fakeUserRepo{})
	ctx := context.Background()

	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-05-01", map[string]int{"X": 2}))

	counts, err := s.DayCounts(ctx, "a@x.com", "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"X": 2, "Y": 0}, counts)
}

func TestSummary_UsesRecordDateForPrices(t *testing.T) {
	repo := &fakeRecordRepo{}
	s := newTestService(repo, &fakeUserRepo{})
	ctx := context.Background()

	// Одна продажа до смены цены, одна после: 2*10 + 1*15.
	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-06-30", map[string]int{"X": 2}))
	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-07-01", map[string]int{"X": 1}))

	sum, err := s.Summary(ctx, "a@x.com", "2024-06-01", "2024-07-31")
	require.NoError(t, err)
	assert.Equal(t, 35, sum.Total)
	assert.Equal(t, 3, sum.Counts["X"])
}

func TestSummary_InvalidRange(t *testing.T) {
	s := newTestService(&fakeRecordRepo{}, &fakeUserRepo{})
	_, err := s.Summary(context.Background(), "a@x.com", "2024-07-01", "2024-06-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestTeamReport_FiltersTeamAndInvisible(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{
		{Email: "a@x.com", Name: "A", Team: "alpha"},
		{Email: "b@x.com", Name: "B", Team: "alpha", Invisible: true},
		{Email: "c@x.com", Name: "C", Team: "beta"},
	}}
	repo := &fakeRecordRepo{}
	s := newTestService(repo, users)
	ctx := context.Background()

	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-05-01", map[string]int{"X": 1}))
	require.NoError(t, s.SetCounts(ctx, "c@x.com", "2024-05-01", map[string]int{"X": 3}))

	rows, err := s.TeamReport(ctx, "alpha", "2024-05-01", "2024-05-31")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a@x.com", rows[0].Email)
	assert.Equal(t, 10, rows[0].Total)

	all, err := s.TeamReport(ctx, TeamAll, "2024-05-01", "2024-05-31")
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Сортировка по убыванию бонуса.
	assert.Equal(t, "c@x.com", all[0].Email)
}

func TestTimeseries_DailyBuckets(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{
		{Email: "a@x.com", Name: "A", Team: "alpha"},
	}}
	repo := &fakeRecordRepo{}
	s := newTestService(repo, users)
	ctx := context.Background()

	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-05-02", map[string]int{"X": 1}))

	points, err := s.Timeseries(ctx, "alpha", "2024-05-01", "2024-05-03")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "2024-05-01", points[0].Bucket)
	assert.Equal(t, 0, points[0].Values["a@x.com"])
	assert.Equal(t, 10, points[1].Values["a@x.com"])
	assert.Equal(t, 0, points[2].Values["a@x.com"])
}

func TestTimeseries_HourlyForSingleDay(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{
		{Email: "a@x.com", Name: "A", Team: "alpha"},
	}}
	repo := &fakeRecordRepo{}
	s := newTestService(repo, users)
	s.now = func() time.Time {
		return time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)
	}
	ctx := context.Background()

	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-05-01", map[string]int{"X": 2}))

	points, err := s.Timeseries(ctx, "alpha", "2024-05-01", "2024-05-01")
	require.NoError(t, err)
	require.Len(t, points, 24)
	assert.Equal(t, "14:00", points[14].Bucket)
	assert.Equal(t, 20, points[14].Values["a@x.com"])
	assert.Equal(t, 0, points[13].Values["a@x.com"])
}

func TestGoalProgress(t *testing.T) {
	users := &fakeUserRepo{users: []models.User{{
		Email: "a@x.com", Name: "A", Team: "alpha",
		Goals: models.Goals{Daily: 20, Weekly: 100, Monthly: 400},
	}}}
	repo := &fakeRecordRepo{}
	s := newTestService(repo, users)
	// Среда 15 мая 2024; неделя с воскресенья 12 мая.
	s.now = func() time.Time {
		return time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()

	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-05-15", map[string]int{"X": 1}))
	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-05-12", map[string]int{"X": 2}))
	require.NoError(t, s.SetCounts(ctx, "a@x.com", "2024-05-05", map[string]int{"X": 4}))

	progress, err := s.GoalProgress(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 10, progress.Daily.Current)
	assert.Equal(t, 20, progress.Daily.Goal)
	assert.Equal(t, 30, progress.Weekly.Current)
	assert.Equal(t, 70, progress.Monthly.Current)
}
