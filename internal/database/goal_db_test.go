package database_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

func TestCreateAndGetGoal(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	goal := &models.SavingsGoal{
		UserID:       userID,
		Name:         "Отпуск",
		TargetAmount: decimal.NewFromInt(5000),
	}
	if err := database.CreateGoal(pool, goal); err != nil {
		t.Fatalf("ошибка создания цели: %v", err)
	}
	if goal.ID == 0 {
		t.Fatal("после создания цели ID остался нулевым")
	}

	created, err := database.GetGoalByID(pool, goal.ID, userID)
	if err != nil {
		t.Fatalf("ошибка получения цели по ID: %v", err)
	}
	if created.Name != goal.Name || !created.TargetAmount.Equal(goal.TargetAmount) {
		t.Errorf("данные цели не совпадают: получили %+v, хотели %+v", created, goal)
	}
	if created.IsCompleted {
		t.Error("новая цель не должна быть завершённой")
	}
}

func TestAddGoalProgress(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	goal := &models.SavingsGoal{
		UserID:       userID,
		Name:         "Ноутбук",
		TargetAmount: decimal.NewFromInt(1000),
	}
	if err := database.CreateGoal(pool, goal); err != nil {
		t.Fatalf("ошибка создания цели: %v", err)
	}

	updated, err := database.AddGoalProgress(pool, goal.ID, userID, decimal.NewFromInt(400))
	if err != nil {
		t.Fatalf("ошибка добавления прогресса: %v", err)
	}
	if !updated.CurrentAmount.Equal(decimal.NewFromInt(400)) {
		t.Errorf("current_amount = %s, ожидалось 400", updated.CurrentAmount)
	}
	if updated.IsCompleted {
		t.Error("цель не должна завершиться при 400 из 1000")
	}

	// Досыпаем до цели: флаг завершения выставляется автоматически
	updated, err = database.AddGoalProgress(pool, goal.ID, userID, decimal.NewFromInt(600))
	if err != nil {
		t.Fatalf("ошибка добавления прогресса: %v", err)
	}
	if !updated.IsCompleted {
		t.Error("цель достигнута, но не помечена завершённой")
	}
}

func TestGoalProgressForeignUser(t *testing.T) {
	pool := testPool(t)
	owner := createTestUser(t, pool)
	stranger := createTestUser(t, pool)

	goal := &models.SavingsGoal{
		UserID:       owner,
		Name:         "Личная цель",
		TargetAmount: decimal.NewFromInt(100),
	}
	if err := database.CreateGoal(pool, goal); err != nil {
		t.Fatalf("ошибка создания цели: %v", err)
	}

	if _, err := database.AddGoalProgress(pool, goal.ID, stranger, decimal.NewFromInt(10)); err == nil {
		t.Error("чужая цель не должна принимать прогресс")
	}
}
