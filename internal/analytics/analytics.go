// Package analytics содержит чистые расчёты производных метрик.
// Данные сюда приходят уже выбранными из базы, поэтому пакет
// тестируется без подключения к Postgres.
package analytics

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxStreakDays — предохранитель на ~10 лет, чтобы обход по дням
// всегда завершался даже у пользователя без единой импульсной покупки
const MaxStreakDays = 3650

// abandonKeywords — эвристика "отказался от покупки": подстрока в
// описании или заметках. Флаг нигде не хранится, только вычисляется.
var abandonKeywords = []string{"abandon", "resist"}

// IsAbandoned сообщает, считается ли транзакция отказом от покупки
func IsAbandoned(description, notes string) bool {
	description = strings.ToLower(description)
	notes = strings.ToLower(notes)
	for _, kw := range abandonKeywords {
		if strings.Contains(description, kw) || strings.Contains(notes, kw) {
			return true
		}
	}
	return false
}

// ImpulsePercentage — доля импульсных трат в процентах.
// При нулевом знаменателе возвращает 0, а не ошибку.
func ImpulsePercentage(impulse, planned decimal.Decimal) decimal.Decimal {
	total := impulse.Add(planned)
	if !total.IsPositive() {
		return decimal.Zero
	}
	return impulse.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
}

// StreakDays идёт назад по дням от today и считает дни без импульсных
// покупок до первого дня, где hasImpulse вернул true.
func StreakDays(today time.Time, hasImpulse func(day time.Time) (bool, error)) (int, error) {
	days := 0
	cursor := today
	for days < MaxStreakDays {
		impulse, err := hasImpulse(cursor)
		if err != nil {
			return 0, err
		}
		if impulse {
			break
		}
		days++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return days, nil
}

// StartOfMonth — полночь первого числа месяца, в котором лежит t
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfDay — полночь дня, в котором лежит t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
