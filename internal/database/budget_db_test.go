package database_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

func TestCreateAndGetBudget(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	budget := &models.Budget{
		UserID:    userID,
		Name:      "Месячный бюджет",
		Amount:    decimal.NewFromInt(1000),
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
		IsActive:  true,
	}
	if err := database.CreateBudget(pool, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}
	if budget.ID == 0 {
		t.Fatal("после создания бюджета ID остался нулевым")
	}

	created, err := database.GetBudgetByID(pool, budget.ID, userID)
	if err != nil {
		t.Fatalf("ошибка получения бюджета по ID: %v", err)
	}
	if created.Name != budget.Name || !created.Amount.Equal(budget.Amount) || !created.IsActive {
		t.Errorf("данные бюджета не совпадают: получили %+v, хотели %+v", created, budget)
	}
}

func TestBudgetTotals(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	budget := &models.Budget{
		UserID:    userID,
		Name:      "Для итогов",
		Amount:    decimal.NewFromInt(1000),
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
		IsActive:  true,
	}
	if err := database.CreateBudget(pool, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	for _, amount := range []int64{150, 250} {
		transaction := &models.Transaction{
			UserID:          userID,
			BudgetID:        &budget.ID,
			Amount:          decimal.NewFromInt(amount),
			Description:     "покупка",
			TransactionDate: time.Now(),
		}
		if err := database.CreateTransaction(pool, transaction); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	totals, err := database.GetBudgetTotals(pool, budget.ID)
	if err != nil {
		t.Fatalf("ошибка расчёта итогов бюджета: %v", err)
	}
	if !totals.TotalSpent.Equal(decimal.NewFromInt(400)) {
		t.Errorf("total_spent = %s, ожидалось 400", totals.TotalSpent)
	}
	if !totals.Remaining.Equal(decimal.NewFromInt(600)) {
		t.Errorf("remaining = %s, ожидалось 600", totals.Remaining)
	}
}

func TestHasBudgets(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	has, err := database.HasBudgets(pool, userID)
	if err != nil {
		t.Fatalf("ошибка проверки бюджетов: %v", err)
	}
	if has {
		t.Error("у нового пользователя не должно быть бюджетов")
	}

	budget := &models.Budget{
		UserID:    userID,
		Name:      "Первый бюджет",
		Amount:    decimal.NewFromInt(500),
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
		IsActive:  true,
	}
	if err := database.CreateBudget(pool, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	has, err = database.HasBudgets(pool, userID)
	if err != nil {
		t.Fatalf("ошибка проверки бюджетов: %v", err)
	}
	if !has {
		t.Error("бюджет создан, но проверка его не видит")
	}
}

func TestUpsertAllocation(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	budget := &models.Budget{
		UserID:    userID,
		Name:      "С лимитами",
		Amount:    decimal.NewFromInt(1000),
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
		IsActive:  true,
	}
	if err := database.CreateBudget(pool, budget); err != nil {
		t.Fatalf("ошибка создания бюджета: %v", err)
	}

	category := &models.Category{UserID: userID, Name: "Еда"}
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

	// Повторный upsert той же пары обновляет сумму, а не плодит строки
	allocation.AllocatedAmount = decimal.NewFromInt(450)
	if err := database.UpsertAllocation(pool, allocation); err != nil {
		t.Fatalf("ошибка обновления лимита: %v", err)
	}

	allocations, err := database.GetAllocationsByBudgetID(pool, budget.ID)
	if err != nil {
		t.Fatalf("ошибка получения лимитов: %v", err)
	}
	if len(allocations) != 1 {
		t.Fatalf("ожидался один лимит, получили %d", len(allocations))
	}
	if !allocations[0].AllocatedAmount.Equal(decimal.NewFromInt(450)) {
		t.Errorf("сумма лимита = %s, ожидалось 450", allocations[0].AllocatedAmount)
	}
}
