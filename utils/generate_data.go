package utils

import (
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

var testColors = []string{"#FF6B6B", "#4ECDC4", "#FFD93D", "#95E1D3", "#A8D8EA", "#C9B1FF"}

func GenerateTestUsers(pool *pgxpool.Pool, numUsers int) []int {
	ids := make([]int, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Email:    gofakeit.Email(),
			Password: gofakeit.Password(true, true, true, false, false, 10),
			Name:     gofakeit.Name(),
		}
		if err := database.RegisterUser(pool, user); err != nil {
			log.Fatalf("ошибка при добавлении пользователя: %v", err)
		}
		ids = append(ids, user.ID)
	}
	return ids
}

func GenerateTestCategories(pool *pgxpool.Pool, userIDs []int, perUser int) []int {
	ids := []int{}
	for _, userID := range userIDs {
		for i := 0; i < perUser; i++ {
			category := &models.Category{
				UserID:      userID,
				Name:        gofakeit.Word(),
				Description: gofakeit.Sentence(4),
				Color:       testColors[rand.Intn(len(testColors))],
			}
			if err := database.CreateCategory(pool, category); err != nil {
				log.Fatalf("ошибка при добавлении категории: %v", err)
			}
			ids = append(ids, category.ID)
		}
	}
	return ids
}

func GenerateTestBudgets(pool *pgxpool.Pool, userIDs []int) []int {
	ids := []int{}
	for _, userID := range userIDs {
		startDate := time.Now().AddDate(0, 0, -rand.Intn(15))
		budget := &models.Budget{
			UserID:    userID,
			Name:      gofakeit.BuzzWord() + " budget",
			Amount:    decimal.NewFromFloat(gofakeit.Price(500, 5000)),
			StartDate: startDate,
			EndDate:   startDate.AddDate(0, 1, 0),
			IsActive:  true,
		}
		if err := database.CreateBudget(pool, budget); err != nil {
			log.Fatalf("ошибка при добавлении бюджета: %v", err)
		}
		ids = append(ids, budget.ID)
	}
	return ids
}

func GenerateTestTransactions(pool *pgxpool.Pool, userIDs, budgetIDs, categoryIDs []int, perUser int) {
	for i, userID := range userIDs {
		for j := 0; j < perUser; j++ {
			transaction := &models.Transaction{
				UserID:          userID,
				Amount:          decimal.NewFromFloat(gofakeit.Price(1, 300)),
				Description:     gofakeit.ProductName(),
				TransactionDate: time.Now().AddDate(0, 0, -rand.Intn(30)),
				IsImpulse:       rand.Intn(3) == 0,
			}
			if len(budgetIDs) > i {
				transaction.BudgetID = &budgetIDs[i]
			}
			if len(categoryIDs) > 0 {
				categoryID := categoryIDs[rand.Intn(len(categoryIDs))]
				transaction.CategoryID = &categoryID
			}
			// Часть импульсных покупок помечается как отказ от покупки
			if transaction.IsImpulse && rand.Intn(2) == 0 {
				transaction.Notes = "resisted this one"
			}
			if err := database.CreateTransaction(pool, transaction); err != nil {
				log.Fatalf("ошибка при добавлении транзакции: %v", err)
			}
		}
	}
}

func GenerateTestGoals(pool *pgxpool.Pool, userIDs []int) {
	for _, userID := range userIDs {
		target := decimal.NewFromFloat(gofakeit.Price(1000, 10000))
		targetDate := time.Now().AddDate(0, rand.Intn(12)+1, 0)
		goal := &models.SavingsGoal{
			UserID:        userID,
			Name:          gofakeit.BuzzWord(),
			TargetAmount:  target,
			CurrentAmount: target.Div(decimal.NewFromInt(int64(rand.Intn(9) + 2))).Round(2),
			TargetDate:    &targetDate,
		}
		if err := database.CreateGoal(pool, goal); err != nil {
			log.Fatalf("ошибка при добавлении цели: %v", err)
		}
	}
}
