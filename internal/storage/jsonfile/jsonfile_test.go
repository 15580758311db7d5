package jsonfile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func testUser(email string) models.User {
	return models.User{
		Email:        email,
		Name:         "Test User",
		Team:         "alpha",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
}

func rec(email, date, product string, qty int) models.SalesRecord {
	return models.SalesRecord{
		Email: email, Date: date, Product: product, Qty: qty,
		RecordedAt: time.Now().UTC(),
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("a@x.com")))
	err := s.CreateUser(ctx, testUser("a@x.com"))
	assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetUser(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestGetUserBySession(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	u := testUser("a@x.com")
	sid := "session-sid-1"
	exp := time.Now().Add(time.Hour)
	u.SessionSID = &sid
	u.SessionExpiresAt = &exp
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUserBySession(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = s.GetUserBySession(ctx, "unknown-sid")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestDeleteUser_CascadesRecords(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("a@x.com")))
	require.NoError(t, s.CreateUser(ctx, testUser("b@x.com")))
	require.NoError(t, s.ReplaceDayCounts(ctx, "a@x.com", "2024-05-01",
		[]models.SalesRecord{rec("a@x.com", "2024-05-01", "fiber_new", 2)}))
	require.NoError(t, s.ReplaceDayCounts(ctx, "b@x.com", "2024-05-01",
		[]models.SalesRecord{rec("b@x.com", "2024-05-01", "fiber_new", 1)}))

	require.NoError(t, s.DeleteUser(ctx, "a@x.com"))

	_, err := s.GetUser(ctx, "a@x.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	all, err := s.ListRecords(ctx, models.RecordFilter{StartDate: "2024-01-01", EndDate: "2024-12-31"})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b@x.com", all[0].Email)
}

func TestReplaceDayCounts_ReplaceSemantics(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	email := "a@x.com"

	require.NoError(t, s.ReplaceDayCounts(ctx, email, "2024-05-01",
		[]models.SalesRecord{rec(email, "2024-05-01", "A", 2)}))
	require.NoError(t, s.ReplaceDayCounts(ctx, email, "2024-05-01",
		[]models.SalesRecord{rec(email, "2024-05-01", "B", 3)}))

	got, err := s.ListRecords(ctx, models.RecordFilter{Email: &email, StartDate: "2024-05-01", EndDate: "2024-05-01"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Product)
	assert.Equal(t, 3, got[0].Qty)
}

func TestReplaceDayCounts_Idempotent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	email := "a@x.com"
	day := []models.SalesRecord{rec(email, "2024-05-01", "A", 2)}

	require.NoError(t, s.ReplaceDayCounts(ctx, email, "2024-05-01", day))
	require.NoError(t, s.ReplaceDayCounts(ctx, email, "2024-05-01", day))

	got, err := s.ListRecords(ctx, models.RecordFilter{Email: &email, StartDate: "2024-05-01", EndDate: "2024-05-01"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestReplaceDayCounts_OtherDaysUntouched(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	email := "a@x.com"

	require.NoError(t, s.ReplaceDayCounts(ctx, email, "2024-05-01",
		[]models.SalesRecord{rec(email, "2024-05-01", "A", 2)}))
	require.NoError(t, s.ReplaceDayCounts(ctx, email, "2024-05-02",
		[]models.SalesRecord{rec(email, "2024-05-02", "B", 1)}))

	got, err := s.ListRecords(ctx, models.RecordFilter{Email: &email, StartDate: "2024-05-01", EndDate: "2024-05-02"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLoadBonusConfig_SeededAndSorted(t *testing.T) {
	s := newTestStorage(t)
	cfg, err := s.LoadBonusConfig(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Schedules)
	assert.Equal(t, "1970-01-01", cfg.Schedules[0].EffectiveDate)
	assert.NotEmpty(t, cfg.Products)
}

func TestSaveBonusConfig_SortsSchedules(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cfg := models.BonusConfig{
		Products: models.DefaultProducts(),
		Schedules: []models.PriceSchedule{
			{EffectiveDate: "2024-06-01", Prices: map[string]int{"X": 15}},
			{EffectiveDate: "2024-01-01", Prices: map[string]int{"X": 10}},
		},
	}
	require.NoError(t, s.SaveBonusConfig(ctx, cfg))

	got, err := s.LoadBonusConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.Schedules[0].EffectiveDate)
	assert.Equal(t, "2024-06-01", got.Schedules[1].EffectiveDate)
}

func TestSaveBonusConfig_RejectsDuplicateDates(t *testing.T) {
	s := newTestStorage(t)
	cfg := models.BonusConfig{
		Schedules: []models.PriceSchedule{
			{EffectiveDate: "2024-01-01", Prices: map[string]int{"X": 10}},
			{EffectiveDate: "2024-01-01", Prices: map[string]int{"X": 15}},
		},
	}
	err := s.SaveBonusConfig(context.Background(), cfg)
	assert.ErrorIs(t, err, storage.ErrDuplicateEffectiveDate)
}

func TestSaveBonusConfig_RejectsEmptySchedules(t *testing.T) {
	s := newTestStorage(t)
	err := s.SaveBonusConfig(context.Background(), models.BonusConfig{})
	assert.ErrorIs(t, err, storage.ErrLastSchedule)
}

func TestMessages_DismissAndList(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	msg := models.Message{
		ID: "m1", Title: "news", Text: "hello", TargetAll: true,
		Active: true, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateMessage(ctx, msg))
	require.NoError(t, s.MarkDismissed(ctx, "m1", "a@x.com"))
	// Повторное скрытие не дублирует email.
	require.NoError(t, s.MarkDismissed(ctx, "m1", "a@x.com"))

	got, err := s.GetMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, got.DismissedFor)

	err = s.MarkDismissed(ctx, "missing", "a@x.com")
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}

func TestMessages_UpdateAndDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	msg := models.Message{ID: "m1", Title: "t", Text: "x", Active: true, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateMessage(ctx, msg))

	msg.Active = false
	require.NoError(t, s.UpdateMessage(ctx, msg))

	got, err := s.GetMessage(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, s.DeleteMessage(ctx, "m1"))
	_, err = s.GetMessage(ctx, "m1")
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}
