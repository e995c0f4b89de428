package models

import "github.com/shopspring/decimal"

// BudgetAllocation — лимит на категорию внутри одного бюджета.
// Пара (budget_id, category_id) уникальна.
type BudgetAllocation struct {
	ID              int             `json:"id" db:"id"`
	BudgetID        int             `json:"budget_id" db:"budget_id"`
	CategoryID      *int            `json:"category_id" db:"category_id"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount" db:"allocated_amount"`
}

// AllocationHealth — выделенная сумма вместе с производными spent/remaining.
// remaining может уходить в минус при перерасходе, это не ошибка.
type AllocationHealth struct {
	ID              int             `json:"id"`
	CategoryID      *int            `json:"category_id"`
	CategoryName    string          `json:"category_name"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	SpentAmount     decimal.Decimal `json:"spent_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}
