package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "auth_user_id"

// BearerToken достаёт токен из заголовка Authorization, а для
// websocket-рукопожатия — из query-параметра token
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// Middleware отклоняет запросы без действительного access-токена
// до любого обращения к данным
func Middleware(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}

		claims, err := manager.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Недействительный или истёкший токен"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserID возвращает идентификатор пользователя, положенный Middleware
func UserID(c *gin.Context) int {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(int)
	return userID
}
