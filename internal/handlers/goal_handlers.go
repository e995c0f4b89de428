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

type goalRequest struct {
	Name          string          `json:"name" binding:"required"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    *time.Time      `json:"target_date"`
}

// goalResponse дополняет цель производным процентом выполнения
func goalResponse(goal *models.SavingsGoal) gin.H {
	return gin.H{
		"id":                  goal.ID,
		"user_id":             goal.UserID,
		"name":                goal.Name,
		"target_amount":       goal.TargetAmount,
		"current_amount":      goal.CurrentAmount,
		"target_date":         goal.TargetDate,
		"is_completed":        goal.IsCompleted,
		"created_at":          goal.CreatedAt,
		"percentage_complete": goal.PercentageComplete(),
		"remaining_amount":    goal.RemainingAmount(),
	}
}

func CreateGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req goalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if req.TargetAmount.IsNegative() || req.CurrentAmount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Суммы цели не могут быть отрицательными"})
			return
		}

		goal := &models.SavingsGoal{
			UserID:        auth.UserID(c),
			Name:          req.Name,
			TargetAmount:  req.TargetAmount,
			CurrentAmount: req.CurrentAmount,
			TargetDate:    req.TargetDate,
		}

		if err := database.CreateGoal(pool, goal); err != nil {
			log.Printf("Ошибка при создании цели: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании цели"})
			return
		}
		c.JSON(http.StatusCreated, goalResponse(goal))
	}
}

func GetGoalsHandler(pool *pgxpool.Pool, onlyActive bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		goals, err := database.GetGoalsByUserID(pool, auth.UserID(c), onlyActive)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка целей"})
			return
		}

		response := []gin.H{}
		for i := range goals {
			response = append(response, goalResponse(&goals[i]))
		}
		c.JSON(http.StatusOK, response)
	}
}

func GetGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}

		goal, err := database.GetGoalByID(pool, id, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Цель не найдена"})
			return
		}
		c.JSON(http.StatusOK, goalResponse(goal))
	}
}

func UpdateGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}

		var req goalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if req.TargetAmount.IsNegative() || req.CurrentAmount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Суммы цели не могут быть отрицательными"})
			return
		}

		goal := &models.SavingsGoal{
			ID:            id,
			UserID:        auth.UserID(c),
			Name:          req.Name,
			TargetAmount:  req.TargetAmount,
			CurrentAmount: req.CurrentAmount,
			TargetDate:    req.TargetDate,
			IsCompleted:   req.CurrentAmount.GreaterThanOrEqual(req.TargetAmount) && req.TargetAmount.IsPositive(),
		}

		if err := database.UpdateGoal(pool, goal); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Цель не найдена"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Цель успешно обновлена"})
	}
}

func DeleteGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}

		if err := database.DeleteGoal(pool, id, auth.UserID(c)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Цель не найдена"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Цель успешно удалена"})
	}
}

type goalProgressRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func AddGoalProgressHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}

		var req goalProgressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных прогресса"})
			return
		}
		if !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Прогресс должен быть положительным числом"})
			return
		}

		goal, err := database.AddGoalProgress(pool, id, auth.UserID(c), req.Amount)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Цель не найдена"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Прогресс успешно обновлён",
			"goal":    goalResponse(goal),
		})
	}
}

func GoalsSummaryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := database.GetGoalsSummary(pool, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении сводки целей"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
