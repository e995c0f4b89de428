package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/auth"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

type budgetRequest struct {
	Name      string          `json:"name" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate time.Time       `json:"start_date" binding:"required"`
	EndDate   time.Time       `json:"end_date" binding:"required"`
	IsActive  *bool           `json:"is_active"`
}

func CreateBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req budgetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сумма бюджета должна быть положительной"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		budget := &models.Budget{
			UserID:    auth.UserID(c),
			Name:      req.Name,
			Amount:    req.Amount,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			IsActive:  isActive,
		}

		if err := database.CreateBudget(pool, budget); err != nil {
			log.Printf("Ошибка при создании бюджета: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании бюджета"})
			return
		}
		c.JSON(http.StatusCreated, budget)
	}
}

func GetBudgetsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		budgets, err := database.GetBudgetsByUserID(pool, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка бюджетов"})
			return
		}
		c.JSON(http.StatusOK, budgets)
	}
}

func GetActiveBudgetsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		budgets, err := database.GetActiveBudgets(pool, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении активных бюджетов"})
			return
		}
		c.JSON(http.StatusOK, budgets)
	}
}

func CheckBudgetExistsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		has, err := database.HasBudgets(pool, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка проверки бюджетов"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"has_budget": has})
	}
}

func GetBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}

		budget, err := database.GetBudgetByID(pool, id, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}
		c.JSON(http.StatusOK, budget)
	}
}

func UpdateBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}

		var req budgetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сумма бюджета должна быть положительной"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		budget := &models.Budget{
			ID:        id,
			UserID:    auth.UserID(c),
			Name:      req.Name,
			Amount:    req.Amount,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			IsActive:  isActive,
		}

		if err := database.UpdateBudget(pool, budget); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет успешно обновлён"})
	}
}

func DeleteBudgetHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}

		if err := database.DeleteBudget(pool, id, auth.UserID(c)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет успешно удалён"})
	}
}

// BudgetSummaryHandler — активный бюджет с производными итогами и
// разбивкой по лимитам категорий. Значения считаются на момент чтения.
func BudgetSummaryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.UserID(c)

		budgets, err := database.GetActiveBudgets(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении активных бюджетов"})
			return
		}
		if len(budgets) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"active_budget": nil,
				"total_spent":   decimal.Zero,
				"remaining":     decimal.Zero,
				"categories":    []models.AllocationHealth{},
			})
			return
		}

		active := budgets[0]
		totals, err := database.GetBudgetTotals(pool, active.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при расчёте итогов бюджета"})
			return
		}

		health, err := database.GetAllocationHealth(pool, active.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при расчёте лимитов бюджета"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"active_budget": active,
			"total_spent":   totals.TotalSpent,
			"remaining":     totals.Remaining,
			"categories":    health,
		})
	}
}

func GetBudgetTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}

		userID := auth.UserID(c)
		if _, err := database.GetBudgetByID(pool, id, userID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}

		transactions, err := database.GetTransactionsByBudgetID(pool, id, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения транзакций бюджета"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

func GetBudgetAllocationsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}

		if _, err := database.GetBudgetByID(pool, id, auth.UserID(c)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}

		health, err := database.GetAllocationHealth(pool, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении лимитов бюджета"})
			return
		}
		c.JSON(http.StatusOK, health)
	}
}

type allocationItem struct {
	CategoryID      int             `json:"category"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
}

type updateAllocationsRequest struct {
	Allocations []allocationItem `json:"allocations"`
}

// UpdateBudgetAllocationsHandler массово создаёт или обновляет лимиты
// категорий бюджета; чужие категории отклоняются поэлементно
func UpdateBudgetAllocationsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}

		userID := auth.UserID(c)
		if _, err := database.GetBudgetByID(pool, id, userID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Бюджет не найден"})
			return
		}

		var req updateAllocationsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных"})
			return
		}

		updated := []models.BudgetAllocation{}
		errs := []gin.H{}

		for idx, item := range req.Allocations {
			if item.CategoryID == 0 {
				errs = append(errs, gin.H{"index": idx, "error": "Не указана категория"})
				continue
			}
			if item.AllocatedAmount.IsNegative() {
				errs = append(errs, gin.H{"index": idx, "error": "Сумма лимита не может быть отрицательной"})
				continue
			}
			if _, err := database.GetCategoryByID(pool, item.CategoryID, userID); err != nil {
				errs = append(errs, gin.H{"index": idx, "category_id": item.CategoryID, "error": "Категория не найдена или принадлежит другому пользователю"})
				continue
			}

			categoryID := item.CategoryID
			allocation := models.BudgetAllocation{
				BudgetID:        id,
				CategoryID:      &categoryID,
				AllocatedAmount: item.AllocatedAmount,
			}
			if err := database.UpsertAllocation(pool, &allocation); err != nil {
				errs = append(errs, gin.H{"index": idx, "error": err.Error()})
				continue
			}
			updated = append(updated, allocation)
		}

		status := http.StatusOK
		if len(errs) > 0 {
			status = http.StatusMultiStatus
		}
		c.JSON(status, gin.H{
			"allocations":   updated,
			"updated_count": len(updated),
			"errors":        errs,
		})
	}
}
