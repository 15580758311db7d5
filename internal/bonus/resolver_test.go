package bonus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
)

func testConfig() *models.BonusConfig {
	return &models.BonusConfig{
		Products: []models.Product{
			{Code: "X", Name: "X product", Bonus: 7},
			{Code: "Y", Name: "Y product", Bonus: 4},
		},
		Schedules: []models.PriceSchedule{
			{EffectiveDate: "2024-01-01", Prices: map[string]int{"X": 10}},
			{EffectiveDate: "2024-06-01", Prices: map[string]int{"X": 15}},
		},
	}
}

func TestResolve(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name   string
		code   string
		onDate string
		want   int
	}{
		{"between schedules takes earlier", "X", "2024-03-15", 10},
		{"after last schedule takes last", "X", "2024-07-01", 15},
		{"before all schedules falls back to earliest", "X", "2023-01-01", 10},
		{"exactly on effective date", "X", "2024-06-01", 15},
		{"missing code falls back to catalog default", "Y", "2024-07-01", 4},
		{"unknown code gives zero", "Z", "2024-07-01", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.code, tt.onDate, cfg))
		})
	}
}

func TestSumRange_UsesRecordDate(t *testing.T) {
	cfg := testConfig()
	records := []models.SalesRecord{
		{Email: "a@x.com", Date: "2024-05-01", Product: "X", Qty: 3},
	}

	assert.Equal(t, 30, SumRange(records, "2024-05-01", "2024-05-01", cfg))

	// Добавление будущего прайс-листа не меняет прошлые суммы.
	cfg.Schedules = append(cfg.Schedules, models.PriceSchedule{
		EffectiveDate: "2024-08-01", Prices: map[string]int{"X": 99},
	})
	assert.Equal(t, 30, SumRange(records, "2024-05-01", "2024-05-01", cfg))
}

func TestSumRange_InclusiveBounds(t *testing.T) {
	cfg := testConfig()
	records := []models.SalesRecord{
		{Email: "a@x.com", Date: "2024-05-01", Product: "X", Qty: 1},
		{Email: "a@x.com", Date: "2024-05-02", Product: "X", Qty: 1},
		{Email: "a@x.com", Date: "2024-05-03", Product: "X", Qty: 1},
	}
	assert.Equal(t, 20, SumRange(records, "2024-05-02", "2024-05-03", cfg))
	assert.Equal(t, 30, SumRange(records, "2024-05-01", "2024-05-03", cfg))
	assert.Equal(t, 0, SumRange(records, "2024-06-10", "2024-06-20", cfg))
}

func TestCountsRange(t *testing.T) {
	cfg := testConfig()
	records := []models.SalesRecord{
		{Email: "a@x.com", Date: "2024-05-01", Product: "X", Qty: 2},
		{Email: "a@x.com", Date: "2024-05-02", Product: "X", Qty: 1},
		{Email: "a@x.com", Date: "2024-05-09", Product: "X", Qty: 5},
	}
	got := CountsRange(records, "2024-05-01", "2024-05-05", cfg)
	assert.Equal(t, map[string]int{"X": 3, "Y": 0}, got)
}
