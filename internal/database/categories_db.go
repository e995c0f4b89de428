package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

// defaultCategories — стартовый набор категорий нового пользователя
var defaultCategories = []models.Category{
	{Name: "Еда", Color: "#F59E0B"},
	{Name: "Транспорт", Color: "#3B82F6"},
	{Name: "Развлечения", Color: "#EC4899"},
	{Name: "Покупки", Color: "#8B5CF6"},
	{Name: "Здоровье", Color: "#10B981"},
	{Name: "Прочее", Color: "#6B7280"},
}

func CreateCategory(pool *pgxpool.Pool, category *models.Category) error {
	if category.Color == "" {
		category.Color = "#6B7280"
	}
	query := `
		INSERT INTO categories (user_id, name, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := pool.QueryRow(context.Background(), query,
		category.UserID,
		category.Name,
		category.Description,
		category.Color).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении категории: %v", err)
	}
	return nil
}

// CreateDefaultCategories заводит стартовые категории при регистрации
func CreateDefaultCategories(pool *pgxpool.Pool, userID int) error {
	for _, c := range defaultCategories {
		category := c
		category.UserID = userID
		if err := CreateCategory(pool, &category); err != nil {
			return err
		}
	}
	return nil
}

func GetCategoryByID(pool *pgxpool.Pool, categoryID, userID int) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, description, color, created_at
		FROM categories
		WHERE id = $1 AND user_id = $2`

	category := &models.Category{}
	err := pool.QueryRow(context.Background(), query, categoryID, userID).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Description,
		&category.Color,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("категория с ID %d не найдена", categoryID)
		}
		return nil, fmt.Errorf("ошибка при получении категории: %v", err)
	}
	return category, nil
}

func GetCategoriesByUserID(pool *pgxpool.Pool, userID int) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, description, color, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка категорий: %v", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(
			&category.ID,
			&category.UserID,
			&category.Name,
			&category.Description,
			&category.Color,
			&category.CreatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// GetCategoryByName возвращает категорию пользователя по имени (nil, если её нет)
func GetCategoryByName(pool *pgxpool.Pool, userID int, name string) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, description, color, created_at
		FROM categories
		WHERE user_id = $1 AND name = $2`

	category := &models.Category{}
	err := pool.QueryRow(context.Background(), query, userID, name).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Description,
		&category.Color,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка при поиске категории: %v", err)
	}
	return category, nil
}

func UpdateCategory(pool *pgxpool.Pool, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, color = $3
		WHERE id = $4 AND user_id = $5`

	result, err := pool.Exec(context.Background(), query,
		category.Name,
		category.Description,
		category.Color,
		category.ID,
		category.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления категории: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("категория с ID %d не найдена", category.ID)
	}
	return nil
}

// DeleteCategory удаляет категорию; ссылки из транзакций и лимитов
// обнуляются на уровне схемы (ON DELETE SET NULL), история сохраняется
func DeleteCategory(pool *pgxpool.Pool, categoryID, userID int) error {
	query := `
		DELETE FROM categories
		WHERE id = $1 AND user_id = $2`

	result, err := pool.Exec(context.Background(), query, categoryID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления категории: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("категория с ID %d не найдена", categoryID)
	}
	return nil
}

// GetCategoryStatistics — количество транзакций и сумма трат по каждой категории
func GetCategoryStatistics(pool *pgxpool.Pool, userID int) ([]models.CategoryStatistics, error) {
	query := `
		SELECT c.id, c.name, COUNT(t.id), COALESCE(SUM(t.amount), 0)
		FROM categories c
		LEFT JOIN transactions t ON t.category_id = c.id AND t.user_id = c.user_id
		WHERE c.user_id = $1
		GROUP BY c.id, c.name
		ORDER BY c.name`

	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении статистики категорий: %v", err)
	}
	defer rows.Close()

	stats := []models.CategoryStatistics{}
	for rows.Next() {
		var s models.CategoryStatistics
		if err := rows.Scan(&s.ID, &s.Name, &s.TransactionCount, &s.TotalSpent); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}
