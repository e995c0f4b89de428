package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID              int             `json:"id" db:"id"`
	UserID          int             `json:"user_id" db:"user_id"`
	BudgetID        *int            `json:"budget_id,omitempty" db:"budget_id"`
	CategoryID      *int            `json:"category_id,omitempty" db:"category_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Description     string          `json:"description" db:"description"`
	Notes           string          `json:"notes" db:"notes"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	IsImpulse       bool            `json:"is_impulse" db:"is_impulse"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// TransactionFilter — необязательные фильтры списка транзакций
type TransactionFilter struct {
	CategoryID *int
	BudgetID   *int
	IsImpulse  *bool
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}
