package database_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		t.Logf("файл .env не загружен: %v", err)
	}
	pool, err := database.ConnectDB()
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	user := &models.User{
		Email:    gofakeit.Email(),
		Password: "password123",
		Name:     gofakeit.Name(),
	}
	if err := database.RegisterUser(pool, user); err != nil {
		t.Fatalf("ошибка создания тестового пользователя: %v", err)
	}
	return user.ID
}

func TestCreateAndGetTransaction(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	transaction := &models.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromFloat(249.99),
		Description:     "наушники",
		Notes:           "спонтанно",
		TransactionDate: time.Now(),
		IsImpulse:       true,
	}
	if err := database.CreateTransaction(pool, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	if transaction.ID == 0 {
		t.Fatal("после создания транзакции ID остался нулевым")
	}

	created, err := database.GetTransactionByID(pool, transaction.ID, userID)
	if err != nil {
		t.Fatalf("ошибка получения транзакции по ID: %v", err)
	}
	if !created.Amount.Equal(transaction.Amount) || created.Description != transaction.Description || !created.IsImpulse {
		t.Errorf("данные транзакции не совпадают: получили %+v, хотели %+v", created, transaction)
	}
}

func TestGetTransactionForeignUser(t *testing.T) {
	pool := testPool(t)
	owner := createTestUser(t, pool)
	stranger := createTestUser(t, pool)

	transaction := &models.Transaction{
		UserID:          owner,
		Amount:          decimal.NewFromInt(10),
		Description:     "кофе",
		TransactionDate: time.Now(),
	}
	if err := database.CreateTransaction(pool, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	if _, err := database.GetTransactionByID(pool, transaction.ID, stranger); err == nil {
		t.Error("чужая транзакция не должна быть доступна")
	}
}

func TestSetTransactionImpulse(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	transaction := &models.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(50),
		Description:     "книга",
		TransactionDate: time.Now(),
	}
	if err := database.CreateTransaction(pool, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	marked, err := database.SetTransactionImpulse(pool, transaction.ID, userID, true)
	if err != nil {
		t.Fatalf("ошибка пометки транзакции: %v", err)
	}
	if !marked.IsImpulse {
		t.Error("флаг импульсной покупки не выставлен")
	}

	// Повторная пометка остаётся успешной
	marked, err = database.SetTransactionImpulse(pool, transaction.ID, userID, true)
	if err != nil {
		t.Fatalf("повторная пометка завершилась ошибкой: %v", err)
	}
	if !marked.IsImpulse {
		t.Error("флаг пропал после повторной пометки")
	}

	unmarked, err := database.SetTransactionImpulse(pool, transaction.ID, userID, false)
	if err != nil {
		t.Fatalf("ошибка снятия пометки: %v", err)
	}
	if unmarked.IsImpulse {
		t.Error("флаг импульсной покупки не снят")
	}
}

func TestTransactionFilters(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	impulse := &models.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(500),
		Description:     "гаджет",
		TransactionDate: time.Now(),
		IsImpulse:       true,
	}
	planned := &models.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(40),
		Description:     "продукты",
		TransactionDate: time.Now(),
	}
	for _, tr := range []*models.Transaction{impulse, planned} {
		if err := database.CreateTransaction(pool, tr); err != nil {
			t.Fatalf("ошибка создания транзакции: %v", err)
		}
	}

	flag := true
	got, err := database.GetTransactionsByUserID(pool, userID, models.TransactionFilter{IsImpulse: &flag})
	if err != nil {
		t.Fatalf("ошибка фильтрации по импульсным: %v", err)
	}
	if len(got) != 1 || got[0].ID != impulse.ID {
		t.Errorf("фильтр импульсных вернул не то: %+v", got)
	}

	min := decimal.NewFromInt(100)
	got, err = database.GetTransactionsByUserID(pool, userID, models.TransactionFilter{MinAmount: &min})
	if err != nil {
		t.Fatalf("ошибка фильтрации по сумме: %v", err)
	}
	if len(got) != 1 || got[0].ID != impulse.ID {
		t.Errorf("фильтр по минимальной сумме вернул не то: %+v", got)
	}
}

func TestDeleteTransaction(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	transaction := &models.Transaction{
		UserID:          userID,
		Amount:          decimal.NewFromInt(5),
		Description:     "жвачка",
		TransactionDate: time.Now(),
	}
	if err := database.CreateTransaction(pool, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}

	if err := database.DeleteTransaction(pool, transaction.ID, userID); err != nil {
		t.Fatalf("ошибка удаления транзакции: %v", err)
	}
	if _, err := database.GetTransactionByID(pool, transaction.ID, userID); err == nil {
		t.Error("транзакция осталась после удаления")
	}
}
