package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

func TestAllocationHealthOverspend(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	budget := &models.Budget{
		UserID:    userID,
		Name:      "С перерасходом",
		Amount:    decimal.NewFromInt(1000),
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
		IsActive:  true,
	}
	if err := database.CreateBudget(pool, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	category := &models.Category{UserID: userID, Name: "Одежда"}
	if err := database.CreateCategory(pool, category); err != nil {
		t.Fatalf("ошибка создания категории: %v", err)
	}

	allocation := &models.BudgetAllocation{
		BudgetID:        budget.ID,
		CategoryID:      &category.ID,
		AllocatedAmount: decimal.NewFromInt(300),
	}
	if err := database.UpsertAllocation(pool, allocation); err != nil {
		t.Fatalf("ошибка создания лимита: %v", err)
	}

	transaction := &models.Transaction{
		UserID:          userID,
		BudgetID:        &budget.ID,
		CategoryID:      &category.ID,
		Amount:          decimal.NewFromInt(350),
		Description:     "куртка",
		TransactionDate: time.Now(),
	}
	if err := database.CreateTransaction(pool, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	health, err := database.GetAllocationHealth(pool, budget.ID)
	if err != nil {
		t.Fatalf("ошибка расчёта лимитов: %v", err)
	}
	if len(health) != 1 {
		t.Fatalf("ожидался один лимит, получили %d", len(health))
	}

	h := health[0]
	if !h.SpentAmount.Equal(decimal.NewFromInt(350)) {
		t.Errorf("spent_amount = %s, ожидалось 350", h.SpentAmount)
	}
	// Перерасход — это отрицательный остаток, а не ошибка
	if !h.RemainingAmount.Equal(decimal.NewFromInt(-50)) {
		t.Errorf("remaining_amount = %s, ожидалось -50", h.RemainingAmount)
	}
	if !h.SpentAmount.Add(h.RemainingAmount).Equal(h.AllocatedAmount) {
		t.Errorf("spent + remaining = %s, не сходится с лимитом %s",
			h.SpentAmount.Add(h.RemainingAmount), h.AllocatedAmount)
	}
}

func TestTotalSavedFromAbandoned(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	abandoned := &models.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(50),
		Description:     "Resisted buying shoes",
		TransactionDate: time.Now(),
		IsImpulse:       true,
	}
	regular := &models.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(30),
		Description:     "продукты",
		TransactionDate: time.Now(),
	}
	for _, tr := range []*models.Transaction{abandoned, regular} {
		if err := database.CreateTransaction(pool, tr); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	total, err := database.GetTotalSavedFromAbandoned(pool, userID)
	if err != nil {
		t.Fatalf("ошибка расчёта сэкономленного: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("сэкономлено %s, ожидалось 50: обычная покупка не должна попадать в сумму", total)
	}
}

func TestTotalSavedKeywordInNotes(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	transaction := &models.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(120),
		Description:     "новые кроссовки",
		Notes:           "ABANDONED at checkout",
		TransactionDate: time.Now(),
	}
	if err := database.CreateTransaction(pool, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	total, err := database.GetTotalSavedFromAbandoned(pool, userID)
	if err != nil {
		t.Fatalf("ошибка расчёта сэкономленного: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(120)) {
		t.Errorf("сэкономлено %s, ожидалось 120: ключевое слово в заметках должно учитываться без оглядки на регистр", total)
	}
}

func TestSpendingByCategoryNullNotes(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	// Строка с NULL в notes — приложение таких не пишет, но выборка
	// не должна молча терять её из-за трёхзначной логики NOT
	_, err := pool.Exec(context.Background(), `
		INSERT INTO transactions (user_id, amount, description, notes, transaction_date, is_impulse)
		VALUES ($1, $2, $3, NULL, NOW(), FALSE)`,
		userID, decimal.NewFromInt(75), "наличные")
	if err != nil {
		t.Fatalf("ошибка вставки транзакции с NULL notes: %v", err)
	}

	spending, err := database.GetSpendingByCategory(pool, userID)
	if err != nil {
		t.Fatalf("ошибка расчёта трат по категориям: %v", err)
	}

	total, ok := spending["Без категории"]
	if !ok {
		t.Fatal("транзакция с NULL notes пропала из разбивки по категориям")
	}
	if !total.Equal(decimal.NewFromInt(75)) {
		t.Errorf("сумма без категории = %s, ожидалось 75", total)
	}
}
