package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID        int             `json:"id" db:"id"`
	UserID    int             `json:"user_id" db:"user_id"`
	Name      string          `json:"name" db:"name"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	StartDate time.Time       `json:"start_date" db:"start_date"`
	EndDate   time.Time       `json:"end_date" db:"end_date"`
	IsActive  bool            `json:"is_active" db:"is_active"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// BudgetTotals — производные значения бюджета, никогда не хранятся в базе
type BudgetTotals struct {
	ID         int             `json:"id"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Remaining  decimal.Decimal `json:"remaining"`
}
