package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/auth"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/database"
	"github.com/valeriaulyamaeva/impulse-tracker/models"
)

type registerRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Name            string `json:"name" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// RegisterHandler создаёт пользователя, заводит стартовые категории
// и сразу выдаёт пару токенов
func RegisterHandler(pool *pgxpool.Pool, tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}
		if req.Password != req.PasswordConfirm {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Пароли не совпадают"})
			return
		}

		exists, err := database.EmailExists(pool, req.Email)
		if err != nil {
			log.Printf("Ошибка проверки email: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка регистрации"})
			return
		}
		if exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email уже зарегистрирован"})
			return
		}

		user := &models.User{Email: req.Email, Name: req.Name, Password: req.Password}
		if err := database.RegisterUser(pool, user); err != nil {
			log.Printf("Ошибка при регистрации пользователя: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка регистрации"})
			return
		}

		if err := database.CreateDefaultCategories(pool, user.ID); err != nil {
			// Пользователь уже создан; категории он сможет завести сам
			log.Printf("Ошибка создания стартовых категорий: %v", err)
		}

		pair, err := tokens.IssuePair(user.ID)
		if err != nil {
			log.Printf("Ошибка выпуска токенов: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка регистрации"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Пользователь успешно зарегистрирован",
			"user":    user,
			"tokens":  pair,
		})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func LoginHandler(pool *pgxpool.Pool, tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка ввода данных"})
			return
		}

		user, err := database.AuthenticateUser(pool, req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный email или пароль"})
			return
		}

		pair, err := tokens.IssuePair(user.ID)
		if err != nil {
			log.Printf("Ошибка выпуска токенов: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка авторизации"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Авторизация успешна",
			"user":    user,
			"tokens":  pair,
		})
	}
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

func RefreshHandler(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Требуется refresh-токен"})
			return
		}

		access, err := tokens.RefreshAccess(req.Refresh)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Недействительный refresh-токен"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}

// LogoutHandler — для JWT серверу делать нечего, клиент забывает токены
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Выход выполнен"})
	}
}

func MeHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := database.GetUserByID(pool, auth.UserID(c))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
