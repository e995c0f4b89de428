package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/auth"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

func CreateCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат категории"})
			return
		}
		if strings.TrimSpace(category.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Название категории обязательно"})
			return
		}
		category.UserID = auth.UserID(c)

		if err := database.CreateCategory(pool, &category); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании категории"})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func GetCategoriesHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := database.GetCategoriesByUserID(pool, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка категорий"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func GetCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор категории"})
			return
		}

		category, err := database.GetCategoryByID(pool, id, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Категория не найдена"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func UpdateCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор категории"})
			return
		}

		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных для категории"})
			return
		}
		category.ID = id
		category.UserID = auth.UserID(c)

		if err := database.UpdateCategory(pool, &category); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Категория не найдена"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Категория успешно обновлена"})
	}
}

func DeleteCategoryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор категории"})
			return
		}

		if err := database.DeleteCategory(pool, id, auth.UserID(c)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Категория не найдена"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Категория успешно удалена"})
	}
}

type bulkCreateRequest struct {
	Categories []models.Category `json:"categories"`
}

// BulkCreateCategoriesHandler создаёт несколько категорий за один запрос.
// Существующие категории с тем же именем возвращаются как есть, а не дублируются.
func BulkCreateCategoriesHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bulkCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных"})
			return
		}
		if len(req.Categories) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Список категорий не может быть пустым"})
			return
		}

		userID := auth.UserID(c)
		created := []models.Category{}
		errs := []gin.H{}

		for idx, item := range req.Categories {
			name := strings.TrimSpace(item.Name)
			if name == "" {
				errs = append(errs, gin.H{"index": idx, "error": "Название категории обязательно"})
				continue
			}

			existing, err := database.GetCategoryByName(pool, userID, name)
			if err != nil {
				errs = append(errs, gin.H{"index": idx, "name": name, "error": err.Error()})
				continue
			}
			if existing != nil {
				created = append(created, *existing)
				continue
			}

			category := models.Category{
				UserID:      userID,
				Name:        name,
				Description: item.Description,
				Color:       item.Color,
			}
			if err := database.CreateCategory(pool, &category); err != nil {
				errs = append(errs, gin.H{"index": idx, "name": name, "error": err.Error()})
				continue
			}
			created = append(created, category)
		}

		status := http.StatusCreated
		if len(errs) > 0 {
			status = http.StatusMultiStatus
		}
		c.JSON(status, gin.H{
			"created":       created,
			"created_count": len(created),
			"errors":        errs,
		})
	}
}

func CategoryStatisticsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := database.GetCategoryStatistics(pool, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении статистики категорий"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
