package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/auth"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/handlers"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/notifier"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/realtime"
)

// SetupRouter собирает все HTTP-маршруты и WebSocket-эндпоинт
func SetupRouter(pool *pgxpool.Pool, tokens *auth.Manager, hub *realtime.Hub, events *notifier.Notifier) *gin.Engine {
	r := gin.Default()
	r.Use(CORSMiddleware())

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", handlers.RegisterHandler(pool, tokens))
		authGroup.POST("/login", handlers.LoginHandler(pool, tokens))
		authGroup.POST("/refresh", handlers.RefreshHandler(tokens))
	}

	protected := api.Group("")
	protected.Use(auth.Middleware(tokens))
	{
		protected.POST("/auth/logout", handlers.LogoutHandler())
		protected.GET("/auth/me", handlers.MeHandler(pool))

		categories := protected.Group("/categories")
		{
			categories.POST("", handlers.CreateCategoryHandler(pool))
			categories.GET("", handlers.GetCategoriesHandler(pool))
			categories.POST("/bulk_create", handlers.BulkCreateCategoriesHandler(pool))
			categories.GET("/statistics", handlers.CategoryStatisticsHandler(pool))
			categories.GET("/:id", handlers.GetCategoryHandler(pool))
			categories.PUT("/:id", handlers.UpdateCategoryHandler(pool))
			categories.DELETE("/:id", handlers.DeleteCategoryHandler(pool))
		}

		budgets := protected.Group("/budgets")
		{
			budgets.POST("", handlers.CreateBudgetHandler(pool))
			budgets.GET("", handlers.GetBudgetsHandler(pool))
			budgets.GET("/active", handlers.GetActiveBudgetsHandler(pool))
			budgets.GET("/check-exists", handlers.CheckBudgetExistsHandler(pool))
			budgets.GET("/summary", handlers.BudgetSummaryHandler(pool))
			budgets.GET("/:id", handlers.GetBudgetHandler(pool))
			budgets.PUT("/:id", handlers.UpdateBudgetHandler(pool))
			budgets.DELETE("/:id", handlers.DeleteBudgetHandler(pool))
			budgets.GET("/:id/transactions", handlers.GetBudgetTransactionsHandler(pool))
			budgets.GET("/:id/allocations", handlers.GetBudgetAllocationsHandler(pool))
			budgets.POST("/:id/update_allocations", handlers.UpdateBudgetAllocationsHandler(pool))
		}

		transactions := protected.Group("/transactions")
		{
			transactions.POST("", handlers.CreateTransactionHandler(pool, events))
			transactions.GET("", handlers.GetTransactionsHandler(pool))
			transactions.GET("/recent", handlers.GetRecentTransactionsHandler(pool))
			transactions.GET("/impulse", handlers.GetImpulseTransactionsHandler(pool))
			transactions.GET("/monthly_total", handlers.MonthlyTotalHandler(pool))
			transactions.GET("/:id", handlers.GetTransactionHandler(pool))
			transactions.PUT("/:id", handlers.UpdateTransactionHandler(pool, events))
			transactions.DELETE("/:id", handlers.DeleteTransactionHandler(pool, events))
			transactions.POST("/:id/mark_impulse", handlers.MarkImpulseHandler(pool, events, true))
			transactions.POST("/:id/unmark_impulse", handlers.MarkImpulseHandler(pool, events, false))
		}

		goals := protected.Group("/savings-goals")
		{
			goals.POST("", handlers.CreateGoalHandler(pool))
			goals.GET("", handlers.GetGoalsHandler(pool, false))
			goals.GET("/active", handlers.GetGoalsHandler(pool, true))
			goals.GET("/summary", handlers.GoalsSummaryHandler(pool))
			goals.GET("/:id", handlers.GetGoalHandler(pool))
			goals.PUT("/:id", handlers.UpdateGoalHandler(pool))
			goals.DELETE("/:id", handlers.DeleteGoalHandler(pool))
			goals.POST("/:id/add_progress", handlers.AddGoalProgressHandler(pool))
		}

		protected.GET("/dashboard", handlers.DashboardHandler(pool))

		analytics := protected.Group("/analytics")
		{
			analytics.GET("/impulse-analysis", handlers.ImpulseAnalysisHandler(pool))
			analytics.GET("/spending-by-category", handlers.SpendingByCategoryHandler(pool))
			analytics.GET("/spending-trend", handlers.SpendingTrendHandler(pool))
			analytics.GET("/monthly-summary", handlers.MonthlySummaryHandler(pool))
		}
	}

	// Токен проверяется внутри обработчика до апгрейда соединения
	r.GET("/ws/transactions", realtime.Handler(tokens, hub))

	return r
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:3001" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}
