package catalog

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bonus-tracker/internal/cache"
	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

type fakeConfigRepo struct {
	cfg   models.BonusConfig
	loads int
}

func (r *fakeConfigRepo) LoadBonusConfig(_ context.Context) (*models.BonusConfig, error) {
	r.loads++
	cfg := r.cfg
	return &cfg, nil
}

func (r *fakeConfigRepo) SaveBonusConfig(_ context.Context, cfg models.BonusConfig) error {
	if len(cfg.Schedules) == 0 {
		return storage.ErrLastSchedule
	}
	sort.Slice(cfg.Schedules, func(i, j int) bool {
		return cfg.Schedules[i].EffectiveDate < cfg.Schedules[j].EffectiveDate
	})
	r.cfg = cfg
	return nil
}

func newTestService(repo *fakeConfigRepo) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, cache.Noop{}, log)
}

func TestAddSchedule(t *testing.T) {
	repo := &fakeConfigRepo{cfg: models.DefaultBonusConfig()}
	s := newTestService(repo)
	ctx := context.Background()

	cfg, err := s.AddSchedule(ctx, "2024-06-01", map[string]int{"fiber_new": 30})
	require.NoError(t, err)
	require.Len(t, cfg.Schedules, 2)

	_, err = s.AddSchedule(ctx, "2024-06-01", map[string]int{"fiber_new": 40})
	assert.ErrorIs(t, err, storage.ErrDuplicateEffectiveDate)
}

func TestAddSchedule_MalformedDate(t *testing.T) {
	repo := &fakeConfigRepo{cfg: models.DefaultBonusConfig()}
	s := newTestService(repo)

	for _, date := range []string{"01.06.2024", "2024-6-1", "not-a-date", ""} {
		_, err := s.AddSchedule(context.Background(), date, map[string]int{"fiber_new": 30})
		assert.ErrorIs(t, err, ErrInvalidDate, date)
	}
	assert.Len(t, repo.cfg.Schedules, 1)
}

func TestUpdateSchedule_NotFound(t *testing.T) {
	repo := &fakeConfigRepo{cfg: models.DefaultBonusConfig()}
	s := newTestService(repo)

	_, err := s.UpdateSchedule(context.Background(), "2030-01-01", map[string]int{"x": 1})
	assert.ErrorIs(t, err, storage.ErrScheduleNotFound)
}

func TestRemoveSchedule_LastOneRejected(t *testing.T) {
	repo := &fakeConfigRepo{cfg: models.DefaultBonusConfig()}
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.RemoveSchedule(ctx, "1970-01-01")
	assert.ErrorIs(t, err, storage.ErrLastSchedule)

	_, err = s.AddSchedule(ctx, "2024-06-01", map[string]int{"fiber_new": 30})
	require.NoError(t, err)

	cfg, err := s.RemoveSchedule(ctx, "1970-01-01")
	require.NoError(t, err)
	require.Len(t, cfg.Schedules, 1)
	assert.Equal(t, "2024-06-01", cfg.Schedules[0].EffectiveDate)
}

func TestSaveProducts_KeepsSchedules(t *testing.T) {
	repo := &fakeConfigRepo{cfg: models.DefaultBonusConfig()}
	s := newTestService(repo)

	cfg, err := s.SaveProducts(context.Background(), []models.Product{
		{Code: "new_product", Name: "New", Bonus: 7},
	})
	require.NoError(t, err)
	assert.Len(t, cfg.Products, 1)
	assert.NotEmpty(t, cfg.Schedules)
}
