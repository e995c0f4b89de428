package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/auth"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
)

func ImpulseAnalysisHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		analysis, err := database.GetImpulseAnalysis(pool, auth.UserID(c), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка анализа импульсных покупок"})
			return
		}
		c.JSON(http.StatusOK, analysis)
	}
}

func SpendingByCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		spending, err := database.GetSpendingByCategory(pool, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении расходов по категориям"})
			return
		}
		c.JSON(http.StatusOK, spending)
	}
}

// SpendingTrendHandler — суммы трат по дням; период задаётся параметром days
func SpendingTrendHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := 30
		if v := c.Query("days"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed <= 0 || parsed > 365 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Параметр days должен быть числом от 1 до 365"})
				return
			}
			days = parsed
		}

		trend, err := database.GetSpendingTrend(pool, auth.UserID(c), days, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении тренда расходов"})
			return
		}
		c.JSON(http.StatusOK, trend)
	}
}

func MonthlySummaryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := database.GetMonthlySummary(pool, auth.UserID(c), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при расчёте сводки за месяц"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
