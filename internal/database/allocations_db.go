package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

// UpsertAllocation создаёт или обновляет лимит категории внутри бюджета.
// Уникальность пары (budget_id, category_id) обеспечивает ON CONFLICT.
func UpsertAllocation(pool *pgxpool.Pool, allocation *models.BudgetAllocation) error {
	query := `
		INSERT INTO budget_allocations (budget_id, category_id, allocated_amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (budget_id, category_id)
		DO UPDATE SET allocated_amount = EXCLUDED.allocated_amount
		RETURNING id`

	err := pool.QueryRow(context.Background(), query,
		allocation.BudgetID,
		allocation.CategoryID,
		allocation.AllocatedAmount).Scan(&allocation.ID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении лимита категории: %v", err)
	}
	return nil
}

func GetAllocationsByBudgetID(pool *pgxpool.Pool, budgetID int) ([]models.BudgetAllocation, error) {
	query := `
		SELECT id, budget_id, category_id, allocated_amount
		FROM budget_allocations
		WHERE budget_id = $1
		ORDER BY id`

	rows, err := pool.Query(context.Background(), query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении лимитов бюджета: %v", err)
	}
	defer rows.Close()

	allocations := []models.BudgetAllocation{}
	for rows.Next() {
		var a models.BudgetAllocation
		if err := rows.Scan(&a.ID, &a.BudgetID, &a.CategoryID, &a.AllocatedAmount); err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, nil
}

func DeleteAllocation(pool *pgxpool.Pool, allocationID, budgetID int) error {
	query := `
		DELETE FROM budget_allocations
		WHERE id = $1 AND budget_id = $2`

	result, err := pool.Exec(context.Background(), query, allocationID, budgetID)
	if err != nil {
		return fmt.Errorf("ошибка удаления лимита категории: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("лимит с ID %d не найден", allocationID)
	}
	return nil
}

// GetAllocationHealth возвращает лимиты бюджета вместе с производными
// spent_amount и remaining_amount. spent считается по транзакциям,
// привязанным и к этой категории, и к этому бюджету; remaining уходит
// в минус при перерасходе.
func GetAllocationHealth(pool *pgxpool.Pool, budgetID int) ([]models.AllocationHealth, error) {
	query := `
		SELECT a.id, a.category_id, COALESCE(c.name, 'Без категории'), a.allocated_amount,
			COALESCE((
				SELECT SUM(t.amount)
				FROM transactions t
				WHERE t.budget_id = a.budget_id
				AND t.category_id IS NOT DISTINCT FROM a.category_id
			), 0) AS spent
		FROM budget_allocations a
		LEFT JOIN categories c ON c.id = a.category_id
		WHERE a.budget_id = $1
		ORDER BY a.id`

	rows, err := pool.Query(context.Background(), query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при расчёте лимитов бюджета: %v", err)
	}
	defer rows.Close()

	health := []models.AllocationHealth{}
	for rows.Next() {
		var h models.AllocationHealth
		if err := rows.Scan(&h.ID, &h.CategoryID, &h.CategoryName, &h.AllocatedAmount, &h.SpentAmount); err != nil {
			return nil, err
		}
		h.RemainingAmount = h.AllocatedAmount.Sub(h.SpentAmount)
		health = append(health, h)
	}
	return health, nil
}
