package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/auth"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/notifier"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/realtime"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/routes"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

func ScheduleBudgetRenewal(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@monthly", func() {
		if err := database.UpdateExpiredBudgets(pool); err != nil {
			log.Printf("Ошибка обновления просроченных бюджетов: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для бюджетов: %v", err)
	}
	c.Start()
}

func ScheduleGoalCompletion(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		if err := database.CompleteReachedGoals(pool); err != nil {
			log.Printf("Ошибка закрытия достигнутых целей: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для целей: %v", err)
	}
	c.Start()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Файл .env не загружен: %v", err)
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	tokens, err := auth.NewManagerFromEnv()
	if err != nil {
		log.Fatalf("Ошибка настройки JWT: %v", err)
	}

	hub := realtime.NewHub()

	// Слой каналов: Redis при наличии REDIS_URL, иначе рассылка внутри процесса
	var layer realtime.ChannelLayer = hub
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisLayer, err := realtime.NewRedisLayer(redisURL, hub)
		if err != nil {
			log.Fatalf("Ошибка подключения к Redis: %v", err)
		}
		defer redisLayer.Close()
		go redisLayer.Run(context.Background())
		layer = redisLayer
	}

	events := notifier.New(layer, func(budgetID int) (*models.BudgetTotals, error) {
		return database.GetBudgetTotals(pool, budgetID)
	})

	ScheduleBudgetRenewal(pool)
	ScheduleGoalCompletion(pool)

	r := routes.SetupRouter(pool, tokens, hub, events)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Сервер запущен на порту %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
