package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/analytics"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

// abandonedCondition — SQL-вариант эвристики analytics.IsAbandoned.
// COALESCE держит условие трёхзначно-безопасным: NULL в notes или
// description не выкидывает строку из NOT-выборок.
const abandonedCondition = `(COALESCE(t.description, '') ILIKE '%abandon%'
		OR COALESCE(t.description, '') ILIKE '%resist%'
		OR COALESCE(t.notes, '') ILIKE '%abandon%'
		OR COALESCE(t.notes, '') ILIKE '%resist%')`

// GetBudgetTotals считает производные значения бюджета на момент чтения:
// total_spent = сумма привязанных транзакций, remaining = amount - total_spent
func GetBudgetTotals(pool *pgxpool.Pool, budgetID int) (*models.BudgetTotals, error) {
	query := `
		SELECT b.id, b.amount, COALESCE((
			SELECT SUM(t.amount) FROM transactions t WHERE t.budget_id = b.id
		), 0) AS total_spent
		FROM budgets b
		WHERE b.id = $1`

	var amount decimal.Decimal
	totals := &models.BudgetTotals{}
	err := pool.QueryRow(context.Background(), query, budgetID).Scan(&totals.ID, &amount, &totals.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("ошибка при расчёте итогов бюджета: %v", err)
	}
	totals.Remaining = amount.Sub(totals.TotalSpent)
	return totals, nil
}

// HasImpulseOnDay — была ли у пользователя импульсная покупка в указанный день
func HasImpulseOnDay(pool *pgxpool.Pool, userID int, day time.Time) (bool, error) {
	start := analytics.StartOfDay(day)
	end := start.AddDate(0, 0, 1)

	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM transactions
			WHERE user_id = $1 AND is_impulse = TRUE
			AND transaction_date >= $2 AND transaction_date < $3
		)`
	err := pool.QueryRow(context.Background(), query, userID, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки импульсных покупок за день: %v", err)
	}
	return exists, nil
}

// GetStreakDaysWithoutImpulse — число дней подряд без импульсных покупок
func GetStreakDaysWithoutImpulse(pool *pgxpool.Pool, userID int, today time.Time) (int, error) {
	return analytics.StreakDays(today, func(day time.Time) (bool, error) {
		return HasImpulseOnDay(pool, userID, day)
	})
}

// GetTotalSavedFromAbandoned — сумма по транзакциям, эвристически
// распознанным как отказ от покупки
func GetTotalSavedFromAbandoned(pool *pgxpool.Pool, userID int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		WHERE t.user_id = $1 AND ` + abandonedCondition

	var total decimal.Decimal
	err := pool.QueryRow(context.Background(), query, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при расчёте сэкономленного: %v", err)
	}
	return total, nil
}

// GetImpulsesResistedThisMonth — импульсные транзакции месяца с ключевыми
// словами отказа; если таких нет, возвращает общее число импульсных за месяц
func GetImpulsesResistedThisMonth(pool *pgxpool.Pool, userID int, now time.Time) (int, error) {
	start := analytics.StartOfMonth(now)

	var resisted int
	query := `
		SELECT COUNT(*)
		FROM transactions t
		WHERE t.user_id = $1 AND t.is_impulse = TRUE AND t.transaction_date >= $2
		AND ` + abandonedCondition
	err := pool.QueryRow(context.Background(), query, userID, start).Scan(&resisted)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта отказов за месяц: %v", err)
	}
	if resisted > 0 {
		return resisted, nil
	}

	query = `
		SELECT COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND is_impulse = TRUE AND transaction_date >= $2`
	err = pool.QueryRow(context.Background(), query, userID, start).Scan(&resisted)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта импульсных покупок за месяц: %v", err)
	}
	return resisted, nil
}

// GetSpendingByCategory — траты по категориям без учёта отказов от покупок.
// Транзакции без категории попадают в "Без категории".
func GetSpendingByCategory(pool *pgxpool.Pool, userID int) (map[string]decimal.Decimal, error) {
	query := `
		SELECT COALESCE(c.name, 'Без категории'), SUM(t.amount)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND NOT ` + abandonedCondition + `
		GROUP BY COALESCE(c.name, 'Без категории')`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении расходов по категориям: %v", err)
	}
	defer rows.Close()

	spending := map[string]decimal.Decimal{}
	for rows.Next() {
		var name string
		var total decimal.Decimal
		if err := rows.Scan(&name, &total); err != nil {
			return nil, err
		}
		spending[name] = total
	}
	return spending, nil
}

// ImpulseAnalysis — импульсные и плановые траты за период
type ImpulseAnalysis struct {
	ImpulseSpending   decimal.Decimal `json:"impulse_spending"`
	PlannedSpending   decimal.Decimal `json:"planned_spending"`
	TotalSpending     decimal.Decimal `json:"total_spending"`
	ImpulseCount      int             `json:"impulse_count"`
	PlannedCount      int             `json:"planned_count"`
	ImpulsePercentage decimal.Decimal `json:"impulse_percentage"`
}

func GetImpulseAnalysis(pool *pgxpool.Pool, userID int, now time.Time) (*ImpulseAnalysis, error) {
	start := analytics.StartOfMonth(now)

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE is_impulse), 0),
			COALESCE(SUM(amount) FILTER (WHERE NOT is_impulse), 0),
			COUNT(*) FILTER (WHERE is_impulse),
			COUNT(*) FILTER (WHERE NOT is_impulse)
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2`

	result := &ImpulseAnalysis{}
	err := pool.QueryRow(context.Background(), query, userID, start).Scan(
		&result.ImpulseSpending,
		&result.PlannedSpending,
		&result.ImpulseCount,
		&result.PlannedCount,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка анализа импульсных покупок: %v", err)
	}

	result.TotalSpending = result.ImpulseSpending.Add(result.PlannedSpending)
	result.ImpulsePercentage = analytics.ImpulsePercentage(result.ImpulseSpending, result.PlannedSpending)
	return result, nil
}

// DailySpending — траты одного дня для графика тренда
type DailySpending struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// GetSpendingTrend — суммы по дням за последние days дней, включая нулевые дни
func GetSpendingTrend(pool *pgxpool.Pool, userID, days int, now time.Time) ([]DailySpending, error) {
	end := analytics.StartOfDay(now)
	start := end.AddDate(0, 0, -days)

	query := `
		SELECT transaction_date::date, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2
		GROUP BY transaction_date::date`

	rows, err := pool.Query(context.Background(), query, userID, start)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении тренда расходов: %v", err)
	}
	defer rows.Close()

	byDay := map[string]decimal.Decimal{}
	for rows.Next() {
		var day time.Time
		var total decimal.Decimal
		if err := rows.Scan(&day, &total); err != nil {
			return nil, err
		}
		byDay[day.Format("2006-01-02")] = total
	}

	trend := []DailySpending{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		amount, ok := byDay[key]
		if !ok {
			amount = decimal.Zero
		}
		trend = append(trend, DailySpending{Date: key, Amount: amount})
	}
	return trend, nil
}

// GetMonthlyTotal — траты пользователя с начала текущего месяца
func GetMonthlyTotal(pool *pgxpool.Pool, userID int, now time.Time) (decimal.Decimal, error) {
	start := analytics.StartOfMonth(now)

	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2`
	err := pool.QueryRow(context.Background(), query, userID, start).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при расчёте трат за месяц: %v", err)
	}
	return total, nil
}

// MonthlySummary — ключевые метрики месяца для главного экрана
type MonthlySummary struct {
	MonthlySpending decimal.Decimal `json:"monthly_spending"`
	TotalBudget     decimal.Decimal `json:"total_budget"`
	BudgetRemaining decimal.Decimal `json:"budget_remaining"`
	ImpulseSpending decimal.Decimal `json:"impulse_spending"`
	ActiveGoals     int             `json:"active_goals"`
	IsOverBudget    bool            `json:"is_over_budget"`
}

func GetMonthlySummary(pool *pgxpool.Pool, userID int, now time.Time) (*MonthlySummary, error) {
	start := analytics.StartOfMonth(now)
	summary := &MonthlySummary{}

	query := `
		SELECT
			COALESCE(SUM(amount), 0),
			COALESCE(SUM(amount) FILTER (WHERE is_impulse), 0)
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2`
	err := pool.QueryRow(context.Background(), query, userID, start).Scan(
		&summary.MonthlySpending, &summary.ImpulseSpending)
	if err != nil {
		return nil, fmt.Errorf("ошибка при расчёте сводки за месяц: %v", err)
	}

	query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM budgets
		WHERE user_id = $1 AND is_active = TRUE`
	if err := pool.QueryRow(context.Background(), query, userID).Scan(&summary.TotalBudget); err != nil {
		return nil, fmt.Errorf("ошибка при расчёте активных бюджетов: %v", err)
	}

	query = `
		SELECT COUNT(*)
		FROM savings_goals
		WHERE user_id = $1 AND is_completed = FALSE`
	if err := pool.QueryRow(context.Background(), query, userID).Scan(&summary.ActiveGoals); err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте активных целей: %v", err)
	}

	summary.BudgetRemaining = summary.TotalBudget.Sub(summary.MonthlySpending)
	summary.IsOverBudget = summary.MonthlySpending.GreaterThan(summary.TotalBudget)
	return summary, nil
}
