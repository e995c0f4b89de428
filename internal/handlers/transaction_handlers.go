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
	"github.com/valeriaulyamaeva/impulse-tracker/internal/notifier"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

type transactionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description" binding:"required"`
	Notes           string          `json:"notes"`
	TransactionDate *time.Time      `json:"transaction_date"`
	CategoryID      *int            `json:"category_id"`
	BudgetID        *int            `json:"budget_id"`
	IsImpulse       bool            `json:"is_impulse"`
}

// validateReferences проверяет, что привязанные бюджет и категория
// принадлежат вызывающему; чужие и несуществующие ссылки отклоняются
// до записи
func validateReferences(pool *pgxpool.Pool, userID int, budgetID, categoryID *int) string {
	if budgetID != nil {
		if _, err := database.GetBudgetByID(pool, *budgetID, userID); err != nil {
			return "Указанный бюджет не найден"
		}
	}
	if categoryID != nil {
		if _, err := database.GetCategoryByID(pool, *categoryID, userID); err != nil {
			return "Указанная категория не найдена"
		}
	}
	return ""
}

func CreateTransactionHandler(pool *pgxpool.Pool, events *notifier.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод", "details": err.Error()})
			return
		}
		if !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сумма должна быть положительной"})
			return
		}

		userID := auth.UserID(c)
		if msg := validateReferences(pool, userID, req.BudgetID, req.CategoryID); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		date := time.Now()
		if req.TransactionDate != nil {
			date = *req.TransactionDate
		}
		transaction := &models.Transaction{
			UserID:          userID,
			BudgetID:        req.BudgetID,
			CategoryID:      req.CategoryID,
			Amount:          req.Amount,
			Description:     req.Description,
			Notes:           req.Notes,
			TransactionDate: date,
			IsImpulse:       req.IsImpulse,
		}

		if err := database.CreateTransaction(pool, transaction); err != nil {
			log.Printf("Ошибка при создании транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка создания транзакции"})
			return
		}

		// Уведомление уходит только после успешной записи
		events.TransactionChanged(notifier.ActionCreated, transaction)
		c.JSON(http.StatusCreated, transaction)
	}
}

func GetTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseTransactionFilter(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		transactions, err := database.GetTransactionsByUserID(pool, auth.UserID(c), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения транзакций"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

func GetTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}

		transaction, err := database.GetTransactionByID(pool, id, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
			return
		}
		c.JSON(http.StatusOK, transaction)
	}
}

func UpdateTransactionHandler(pool *pgxpool.Pool, events *notifier.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}

		var req transactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод"})
			return
		}
		if !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сумма должна быть положительной"})
			return
		}

		userID := auth.UserID(c)
		if msg := validateReferences(pool, userID, req.BudgetID, req.CategoryID); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		existing, err := database.GetTransactionByID(pool, id, userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
			return
		}

		date := existing.TransactionDate
		if req.TransactionDate != nil {
			date = *req.TransactionDate
		}
		transaction := &models.Transaction{
			ID:              id,
			UserID:          userID,
			BudgetID:        req.BudgetID,
			CategoryID:      req.CategoryID,
			Amount:          req.Amount,
			Description:     req.Description,
			Notes:           req.Notes,
			TransactionDate: date,
			IsImpulse:       req.IsImpulse,
			CreatedAt:       existing.CreatedAt,
		}

		if err := database.UpdateTransaction(pool, transaction); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка обновления транзакции"})
			return
		}

		events.TransactionChanged(notifier.ActionUpdated, transaction)
		c.JSON(http.StatusOK, transaction)
	}
}

func DeleteTransactionHandler(pool *pgxpool.Pool, events *notifier.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}

		userID := auth.UserID(c)
		// Привязка к бюджету нужна для уведомления и пропадает после удаления
		existing, err := database.GetTransactionByID(pool, id, userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
			return
		}

		if err := database.DeleteTransaction(pool, id, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка удаления транзакции"})
			return
		}

		events.TransactionChanged(notifier.ActionDeleted, existing)
		c.JSON(http.StatusOK, gin.H{"message": "Транзакция успешно удалена"})
	}
}

// MarkImpulseHandler выставляет (или снимает) флаг импульсной покупки.
// Повторная пометка уже помеченной транзакции — успешный no-op.
func MarkImpulseHandler(pool *pgxpool.Pool, events *notifier.Notifier, isImpulse bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}

		transaction, err := database.SetTransactionImpulse(pool, id, auth.UserID(c), isImpulse)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
			return
		}

		events.TransactionChanged(notifier.ActionUpdated, transaction)

		message := "Транзакция помечена как импульсная покупка"
		if !isImpulse {
			message = "Пометка импульсной покупки снята"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     message,
			"transaction": transaction,
		})
	}
}

func GetRecentTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		transactions, err := database.GetRecentTransactions(pool, auth.UserID(c), 10)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения последних транзакций"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

func GetImpulseTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		impulse := true
		transactions, err := database.GetTransactionsByUserID(pool, auth.UserID(c), models.TransactionFilter{IsImpulse: &impulse})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения импульсных покупок"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

func MonthlyTotalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		total, err := database.GetMonthlyTotal(pool, auth.UserID(c), now)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при расчёте трат за месяц"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"month":       now.Format("January 2006"),
			"total_spent": total,
		})
	}
}

func parseTransactionFilter(c *gin.Context) (models.TransactionFilter, error) {
	var filter models.TransactionFilter

	if v := c.Query("category"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return filter, errInvalidFilter("category")
		}
		filter.CategoryID = &id
	}
	if v := c.Query("budget"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return filter, errInvalidFilter("budget")
		}
		filter.BudgetID = &id
	}
	if v := c.Query("is_impulse"); v != "" {
		impulse := v == "true"
		filter.IsImpulse = &impulse
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errInvalidFilter("start_date")
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errInvalidFilter("end_date")
		}
		// Верхняя граница включает весь указанный день
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}
	if v := c.Query("min_amount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errInvalidFilter("min_amount")
		}
		filter.MinAmount = &amount
	}
	if v := c.Query("max_amount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return filter, errInvalidFilter("max_amount")
		}
		filter.MaxAmount = &amount
	}
	return filter, nil
}

type filterError string

func (e filterError) Error() string { return string(e) }

func errInvalidFilter(name string) error {
	return filterError("Некорректное значение фильтра " + name)
}
