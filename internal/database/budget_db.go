package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

func CreateBudget(pool *pgxpool.Pool, budget *models.Budget) error {
	query := `
		INSERT INTO budgets (user_id, name, amount, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := pool.QueryRow(context.Background(), query,
		budget.UserID,
		budget.Name,
		budget.Amount,
		budget.StartDate,
		budget.EndDate,
		budget.IsActive).Scan(&budget.ID, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении бюджета: %v", err)
	}
	return nil
}

func GetBudgetByID(pool *pgxpool.Pool, budgetID, userID int) (*models.Budget, error) {
	query := `
		SELECT id, user_id, name, amount, start_date, end_date, is_active, created_at, updated_at
		FROM budgets
		WHERE id = $1 AND user_id = $2`

	budget := &models.Budget{}
	err := pool.QueryRow(context.Background(), query, budgetID, userID).Scan(
		&budget.ID,
		&budget.UserID,
		&budget.Name,
		&budget.Amount,
		&budget.StartDate,
		&budget.EndDate,
		&budget.IsActive,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("бюджет с ID %d не найден", budgetID)
		}
		return nil, fmt.Errorf("ошибка при получении бюджета: %v", err)
	}
	return budget, nil
}

func GetBudgetsByUserID(pool *pgxpool.Pool, userID int) ([]models.Budget, error) {
	return queryBudgets(pool, `
		SELECT id, user_id, name, amount, start_date, end_date, is_active, created_at, updated_at
		FROM budgets
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
}

func GetActiveBudgets(pool *pgxpool.Pool, userID int) ([]models.Budget, error) {
	return queryBudgets(pool, `
		SELECT id, user_id, name, amount, start_date, end_date, is_active, created_at, updated_at
		FROM budgets
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC`, userID)
}

func queryBudgets(pool *pgxpool.Pool, query string, userID int) ([]models.Budget, error) {
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка бюджетов: %v", err)
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Name, &b.Amount,
			&b.StartDate, &b.EndDate, &b.IsActive,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}

// HasBudgets сообщает, заведён ли у пользователя хотя бы один бюджет
func HasBudgets(pool *pgxpool.Pool, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM budgets WHERE user_id = $1)`
	err := pool.QueryRow(context.Background(), query, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки бюджетов: %v", err)
	}
	return exists, nil
}

func UpdateBudget(pool *pgxpool.Pool, budget *models.Budget) error {
	query := `
		UPDATE budgets
		SET name = $1, amount = $2, start_date = $3, end_date = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7`

	result, err := pool.Exec(context.Background(), query,
		budget.Name,
		budget.Amount,
		budget.StartDate,
		budget.EndDate,
		budget.IsActive,
		budget.ID,
		budget.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления бюджета: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d не найден", budget.ID)
	}
	return nil
}

// DeleteBudget удаляет бюджет; транзакции остаются с budget_id = NULL
func DeleteBudget(pool *pgxpool.Pool, budgetID, userID int) error {
	query := `
		DELETE FROM budgets
		WHERE id = $1 AND user_id = $2`

	result, err := pool.Exec(context.Background(), query, budgetID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления бюджета: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("бюджет с ID %d не найден", budgetID)
	}
	return nil
}

// UpdateExpiredBudgets снимает флаг активности с бюджетов, чей период закончился.
// Запускается по расписанию из cmd/main.go.
func UpdateExpiredBudgets(pool *pgxpool.Pool) error {
	query := `
		UPDATE budgets
		SET is_active = FALSE, updated_at = NOW()
		WHERE is_active = TRUE AND end_date < CURRENT_DATE`

	_, err := pool.Exec(context.Background(), query)
	if err != nil {
		return fmt.Errorf("ошибка деактивации просроченных бюджетов: %v", err)
	}
	return nil
}
