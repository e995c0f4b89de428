package database_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

func TestRegisterAndAuthenticateUser(t *testing.T) {
	pool := testPool(t)

	email := gofakeit.Email()
	user := &models.User{
		Email:    email,
		Password: "strongpassword",
		Name:     gofakeit.Name(),
	}
	if err := database.RegisterUser(pool, user); err != nil {
		t.Fatalf("ошибка регистрации пользователя: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("после регистрации ID остался нулевым")
	}
	if user.Password != "" {
		t.Error("пароль не должен оставаться в структуре после регистрации")
	}

	authenticated, err := database.AuthenticateUser(pool, email, "strongpassword")
	if err != nil {
		t.Fatalf("ошибка аутентификации: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Errorf("аутентифицирован не тот пользователь: %d вместо %d", authenticated.ID, user.ID)
	}

	if _, err := database.AuthenticateUser(pool, email, "wrongpassword"); err == nil {
		t.Error("неверный пароль не должен проходить аутентификацию")
	}
}

func TestEmailExists(t *testing.T) {
	pool := testPool(t)

	email := gofakeit.Email()
	exists, err := database.EmailExists(pool, email)
	if err != nil {
		t.Fatalf("ошибка проверки email: %v", err)
	}
	if exists {
		t.Error("email ещё не зарегистрирован, но проверка его нашла")
	}

	user := &models.User{Email: email, Password: "password123", Name: gofakeit.Name()}
	if err := database.RegisterUser(pool, user); err != nil {
		t.Fatalf("ошибка регистрации пользователя: %v", err)
	}

	exists, err = database.EmailExists(pool, email)
	if err != nil {
		t.Fatalf("ошибка проверки email: %v", err)
	}
	if !exists {
		t.Error("email зарегистрирован, но проверка его не видит")
	}
}

func TestCreateDefaultCategories(t *testing.T) {
	pool := testPool(t)
	userID := createTestUser(t, pool)

	if err := database.CreateDefaultCategories(pool, userID); err != nil {
		t.Fatalf("ошибка создания стартовых категорий: %v", err)
	}

	categories, err := database.GetCategoriesByUserID(pool, userID)
	if err != nil {
		t.Fatalf("ошибка получения категорий: %v", err)
	}
	if len(categories) == 0 {
		t.Error("стартовые категории не созданы")
	}
}
