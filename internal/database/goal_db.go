package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

// CreateGoal добавляет новую цель накопления
func CreateGoal(pool *pgxpool.Pool, goal *models.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (user_id, name, target_amount, current_amount, target_date, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := pool.QueryRow(context.Background(), query,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.TargetDate,
		goal.IsCompleted).Scan(&goal.ID, &goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении цели: %v", err)
	}
	return nil
}

func GetGoalByID(pool *pgxpool.Pool, goalID, userID int) (*models.SavingsGoal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, target_date, is_completed, created_at
		FROM savings_goals
		WHERE id = $1 AND user_id = $2`

	goal := &models.SavingsGoal{}
	err := pool.QueryRow(context.Background(), query, goalID, userID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.TargetDate,
		&goal.IsCompleted,
		&goal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("цель с ID %d не найдена", goalID)
		}
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}
	return goal, nil
}

func GetGoalsByUserID(pool *pgxpool.Pool, userID int, onlyActive bool) ([]models.SavingsGoal, error) {
	query := `
		SELECT id, user_id, name, target_amount, current_amount, target_date, is_completed, created_at
		FROM savings_goals
		WHERE user_id = $1`
	if onlyActive {
		query += ` AND is_completed = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка целей: %v", err)
	}
	defer rows.Close()

	goals := []models.SavingsGoal{}
	for rows.Next() {
		var g models.SavingsGoal
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Name, &g.TargetAmount,
			&g.CurrentAmount, &g.TargetDate, &g.IsCompleted, &g.CreatedAt,
		); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func UpdateGoal(pool *pgxpool.Pool, goal *models.SavingsGoal) error {
	query := `
		UPDATE savings_goals
		SET name = $1, target_amount = $2, current_amount = $3, target_date = $4, is_completed = $5
		WHERE id = $6 AND user_id = $7`

	result, err := pool.Exec(context.Background(), query,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.TargetDate,
		goal.IsCompleted,
		goal.ID,
		goal.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("цель с ID %d не найдена", goal.ID)
	}
	return nil
}

func DeleteGoal(pool *pgxpool.Pool, goalID, userID int) error {
	query := `
		DELETE FROM savings_goals
		WHERE id = $1 AND user_id = $2`

	result, err := pool.Exec(context.Background(), query, goalID, userID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("цель с ID %d не найдена", goalID)
	}
	return nil
}

// AddGoalProgress прибавляет сумму к текущему прогрессу цели и
// выставляет is_completed, когда цель достигнута
func AddGoalProgress(pool *pgxpool.Pool, goalID, userID int, amount decimal.Decimal) (*models.SavingsGoal, error) {
	query := `
		UPDATE savings_goals
		SET current_amount = current_amount + $1,
			is_completed = (current_amount + $1 >= target_amount)
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, name, target_amount, current_amount, target_date, is_completed, created_at`

	goal := &models.SavingsGoal{}
	err := pool.QueryRow(context.Background(), query, amount, goalID, userID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.TargetDate,
		&goal.IsCompleted,
		&goal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("цель с ID %d не найдена", goalID)
		}
		return nil, fmt.Errorf("ошибка при обновлении прогресса: %v", err)
	}
	return goal, nil
}

// CompleteReachedGoals помечает достигнутые цели завершёнными (ежедневная задача)
func CompleteReachedGoals(pool *pgxpool.Pool) error {
	query := `
		UPDATE savings_goals
		SET is_completed = TRUE
		WHERE is_completed = FALSE AND current_amount >= target_amount AND target_amount > 0`

	_, err := pool.Exec(context.Background(), query)
	if err != nil {
		return fmt.Errorf("ошибка завершения достигнутых целей: %v", err)
	}
	return nil
}

// GoalsSummary — сводка по целям пользователя
type GoalsSummary struct {
	TotalGoals         int             `json:"total_goals"`
	ActiveGoals        int             `json:"active_goals"`
	CompletedGoals     int             `json:"completed_goals"`
	TotalTarget        decimal.Decimal `json:"total_target"`
	TotalSaved         decimal.Decimal `json:"total_saved"`
	PercentageComplete decimal.Decimal `json:"percentage_complete"`
}

func GetGoalsSummary(pool *pgxpool.Pool, userID int) (*GoalsSummary, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_completed = FALSE),
			COUNT(*) FILTER (WHERE is_completed = TRUE),
			COALESCE(SUM(target_amount), 0),
			COALESCE(SUM(current_amount), 0)
		FROM savings_goals
		WHERE user_id = $1`

	summary := &GoalsSummary{}
	err := pool.QueryRow(context.Background(), query, userID).Scan(
		&summary.TotalGoals,
		&summary.ActiveGoals,
		&summary.CompletedGoals,
		&summary.TotalTarget,
		&summary.TotalSaved,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении сводки целей: %v", err)
	}

	if summary.TotalTarget.IsPositive() {
		summary.PercentageComplete = summary.TotalSaved.Div(summary.TotalTarget).Mul(decimal.NewFromInt(100))
	}
	return summary, nil
}
