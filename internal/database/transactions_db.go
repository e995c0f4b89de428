package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

const transactionColumns = `id, user_id, budget_id, category_id, amount, description, notes, transaction_date, is_impulse, created_at`

func scanTransaction(row pgx.Row, t *models.Transaction) error {
	return row.Scan(
		&t.ID,
		&t.UserID,
		&t.BudgetID,
		&t.CategoryID,
		&t.Amount,
		&t.Description,
		&t.Notes,
		&t.TransactionDate,
		&t.IsImpulse,
		&t.CreatedAt,
	)
}

func CreateTransaction(pool *pgxpool.Pool, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, budget_id, category_id, amount, description, notes, transaction_date, is_impulse)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := pool.QueryRow(context.Background(), query,
		transaction.UserID,
		transaction.BudgetID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Description,
		transaction.Notes,
		transaction.TransactionDate,
		transaction.IsImpulse).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении транзакции: %v", err)
	}
	return nil
}

func GetTransactionByID(pool *pgxpool.Pool, transactionID, userID int) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2`

	transaction := &models.Transaction{}
	err := scanTransaction(pool.QueryRow(context.Background(), query, transactionID, userID), transaction)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("транзакция с ID %d не найдена", transactionID)
		}
		return nil, fmt.Errorf("ошибка при получении транзакции: %v", err)
	}
	return transaction, nil
}

// GetTransactionsByUserID возвращает транзакции пользователя с необязательными фильтрами
func GetTransactionsByUserID(pool *pgxpool.Pool, userID int, filter models.TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1`
	args := []interface{}{userID}

	addArg := func(clause string, value interface{}) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.CategoryID != nil {
		addArg(" AND category_id = $%d", *filter.CategoryID)
	}
	if filter.BudgetID != nil {
		addArg(" AND budget_id = $%d", *filter.BudgetID)
	}
	if filter.IsImpulse != nil {
		addArg(" AND is_impulse = $%d", *filter.IsImpulse)
	}
	if filter.StartDate != nil {
		addArg(" AND transaction_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addArg(" AND transaction_date <= $%d", *filter.EndDate)
	}
	if filter.MinAmount != nil {
		addArg(" AND amount >= $%d", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		addArg(" AND amount <= $%d", *filter.MaxAmount)
	}
	query += " ORDER BY transaction_date DESC, id DESC"

	rows, err := pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций: %v", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// GetRecentTransactions — последние limit транзакций пользователя
func GetRecentTransactions(pool *pgxpool.Pool, userID, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, id DESC
		LIMIT $2`

	rows, err := pool.Query(context.Background(), query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения последних транзакций: %v", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

func UpdateTransaction(pool *pgxpool.Pool, transaction *models.Transaction) error {
	query := `
		UPDATE transactions
		SET budget_id = $1, category_id = $2, amount = $3, description = $4, notes = $5, transaction_date = $6, is_impulse = $7
		WHERE id = $8 AND user_id = $9`

	result, err := pool.Exec(context.Background(), query,
		transaction.BudgetID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Description,
		transaction.Notes,
		transaction.TransactionDate,
		transaction.IsImpulse,
		transaction.ID,
		transaction.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления транзакции: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена", transaction.ID)
	}
	return nil
}

// SetTransactionImpulse выставляет флаг импульсной покупки.
// Повторный вызов с тем же значением — no-op и не считается ошибкой.
func SetTransactionImpulse(pool *pgxpool.Pool, transactionID, userID int, isImpulse bool) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET is_impulse = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + transactionColumns

	transaction := &models.Transaction{}
	err := scanTransaction(pool.QueryRow(context.Background(), query, isImpulse, transactionID, userID), transaction)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("транзакция с ID %d не найдена", transactionID)
		}
		return nil, fmt.Errorf("ошибка изменения флага импульсной покупки: %v", err)
	}
	return transaction, nil
}

func DeleteTransaction(pool *pgxpool.Pool, transactionID, userID int) error {
	query := `
		DELETE FROM transactions
		WHERE id = $1 AND user_id = $2`

	result, err := pool.Exec(context.Background(), query, transactionID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления транзакции: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("транзакция с ID %d не найдена", transactionID)
	}
	return nil
}

func GetTransactionsByBudgetID(pool *pgxpool.Pool, budgetID, userID int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE budget_id = $1 AND user_id = $2
		ORDER BY transaction_date DESC, id DESC`

	rows, err := pool.Query(context.Background(), query, budgetID, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения транзакций бюджета: %v", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}
