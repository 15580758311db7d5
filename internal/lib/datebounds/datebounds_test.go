package datebounds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name      string
		d         time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		// 2024-05-15 — среда; неделя с воскресенья 12-го по субботу 18-е.
		{"midweek", day(2024, 5, 15), day(2024, 5, 12), day(2024, 5, 18)},
		{"sunday is week start", day(2024, 5, 12), day(2024, 5, 12), day(2024, 5, 18)},
		{"saturday is week end", day(2024, 5, 18), day(2024, 5, 12), day(2024, 5, 18)},
		{"week spans month boundary", day(2024, 6, 1), day(2024, 5, 26), day(2024, 6, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(tt.d)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(day(2024, 2, 15))
	assert.Equal(t, day(2024, 2, 1), start)
	assert.Equal(t, day(2024, 2, 29), end) // високосный год

	start, end = MonthBounds(day(2024, 12, 31))
	assert.Equal(t, day(2024, 12, 1), start)
	assert.Equal(t, day(2024, 12, 31), end)
}

func TestDaysBetween(t *testing.T) {
	got := DaysBetween(day(2024, 5, 30), day(2024, 6, 2))
	assert.Equal(t, []string{"2024-05-30", "2024-05-31", "2024-06-01", "2024-06-02"}, got)

	got = DaysBetween(day(2024, 5, 30), day(2024, 5, 30))
	assert.Equal(t, []string{"2024-05-30"}, got)
}
