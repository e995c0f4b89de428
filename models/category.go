package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// CategoryStatistics — количество транзакций и общая сумма трат по категории
type CategoryStatistics struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	TransactionCount int             `json:"transaction_count"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
}
