package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/auth"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
)

// DashboardHandler собирает метрики главного экрана: отказы за месяц,
// сэкономленную сумму, серию дней без импульсных покупок и разбивку трат
func DashboardHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.UserID(c)
		now := time.Now()

		resisted, err := database.GetImpulsesResistedThisMonth(pool, userID, now)
		if err != nil {
			log.Printf("Ошибка подсчёта отказов за месяц: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сборе данных для дашборда"})
			return
		}

		saved, err := database.GetTotalSavedFromAbandoned(pool, userID)
		if err != nil {
			log.Printf("Ошибка расчёта сэкономленного: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сборе данных для дашборда"})
			return
		}

		streak, err := database.GetStreakDaysWithoutImpulse(pool, userID, now)
		if err != nil {
			log.Printf("Ошибка расчёта серии дней: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сборе данных для дашборда"})
			return
		}

		spending, err := database.GetSpendingByCategory(pool, userID)
		if err != nil {
			log.Printf("Ошибка расчёта трат по категориям: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при сборе данных для дашборда"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"impulses_resisted_this_month": resisted,
			"total_saved_from_abandoned":   saved,
			"streak_days_without_impulse":  streak,
			"spending_by_category":         spending,
		})
	}
}
