package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser регистрирует нового пользователя с хешированным паролем
func RegisterUser(pool *pgxpool.Pool, user *models.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %v", err)
	}

	query := `
		INSERT INTO users (email, password, name) VALUES ($1, $2, $3) RETURNING id`
	err = pool.QueryRow(context.Background(), query, user.Email, hashedPassword, user.Name).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении пользователя: %v", err)
	}
	user.Password = ""
	return nil
}

func AuthenticateUser(pool *pgxpool.Pool, email, password string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password, name FROM users WHERE email = $1`
	err := pool.QueryRow(context.Background(), query, email).Scan(&user.ID, &user.Email, &user.Password, &user.Name)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("неверный email или пароль")
	}

	user.Password = ""
	return &user, nil
}

func GetUserByID(pool *pgxpool.Pool, userID int) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, name FROM users WHERE id = $1`
	err := pool.QueryRow(context.Background(), query, userID).Scan(&user.ID, &user.Email, &user.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с ID %d не найден", userID)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %v", err)
	}
	return &user, nil
}

func EmailExists(pool *pgxpool.Pool, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	err := pool.QueryRow(context.Background(), query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки email: %v", err)
	}
	return exists, nil
}
