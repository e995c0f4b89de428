package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/analytics"
)

func TestIsAbandoned(t *testing.T) {
	cases := []struct {
		name        string
		description string
		notes       string
		want        bool
	}{
		{"ключевое слово в описании", "abandoned cart at checkout", "", true},
		{"ключевое слово в заметках", "new sneakers", "managed to resist", true},
		{"регистр не важен", "RESISTED the urge", "", true},
		{"обычная покупка", "groceries", "weekly shopping", false},
		{"пустые поля", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, analytics.IsAbandoned(tc.description, tc.notes))
		})
	}
}

func TestImpulsePercentage(t *testing.T) {
	impulse := decimal.NewFromInt(25)
	planned := decimal.NewFromInt(75)
	assert.True(t, decimal.NewFromInt(25).Equal(analytics.ImpulsePercentage(impulse, planned)))
}

func TestImpulsePercentageRounds(t *testing.T) {
	impulse := decimal.NewFromInt(1)
	planned := decimal.NewFromInt(2)
	assert.Equal(t, "33.33", analytics.ImpulsePercentage(impulse, planned).String())
}

func TestImpulsePercentageZeroTotal(t *testing.T) {
	got := analytics.ImpulsePercentage(decimal.Zero, decimal.Zero)
	assert.True(t, got.IsZero(), "при отсутствии трат процент должен быть нулевым")
}

func TestStreakDays(t *testing.T) {
	today := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	// Импульсная покупка была три дня назад: серия из трёх чистых дней
	impulseDay := today.AddDate(0, 0, -3)
	streak, err := analytics.StreakDays(today, func(day time.Time) (bool, error) {
		return analytics.StartOfDay(day).Equal(analytics.StartOfDay(impulseDay)), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestStreakDaysImpulseToday(t *testing.T) {
	today := time.Now()
	streak, err := analytics.StreakDays(today, func(time.Time) (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestStreakDaysBounded(t *testing.T) {
	calls := 0
	streak, err := analytics.StreakDays(time.Now(), func(time.Time) (bool, error) {
		calls++
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, analytics.MaxStreakDays, streak)
	assert.Equal(t, analytics.MaxStreakDays, calls)
}

func TestStartOfMonth(t *testing.T) {
	ts := time.Date(2025, 7, 19, 13, 45, 12, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), analytics.StartOfMonth(ts))
}
