package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims — полезная нагрузка токена: владелец и тип (access/refresh)
type Claims struct {
	jwt.RegisteredClaims
	UserID    int    `json:"user_id"`
	TokenType string `json:"token_type"`
}

// TokenPair — пара токенов, выдаваемая при регистрации и входе
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Manager подписывает и проверяет токены общим HMAC-секретом
type Manager struct {
	secret []byte
}

func NewManager(secret string) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("пустой секрет для подписи токенов")
	}
	return &Manager{secret: []byte(secret)}, nil
}

// NewManagerFromEnv читает секрет из переменной окружения JWT_SECRET
func NewManagerFromEnv() (*Manager, error) {
	return NewManager(os.Getenv("JWT_SECRET"))
}

func (m *Manager) issue(userID int, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   fmt.Sprintf("%d", userID),
		},
		UserID:    userID,
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %v", err)
	}
	return signed, nil
}

// IssuePair выдаёт пару access + refresh для пользователя
func (m *Manager) IssuePair(userID int) (*TokenPair, error) {
	access, err := m.issue(userID, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.issue(userID, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *Manager) parse(tokenStr, expectedType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("проверка токена не пройдена: %v", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("недействительный токен")
	}
	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("ожидался %s-токен", expectedType)
	}
	return claims, nil
}

// ParseAccess проверяет access-токен и возвращает его claims
func (m *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, tokenTypeAccess)
}

// ParseRefresh проверяет refresh-токен и возвращает его claims
func (m *Manager) ParseRefresh(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, tokenTypeRefresh)
}

// RefreshAccess обменивает действительный refresh-токен на новый access
func (m *Manager) RefreshAccess(refreshToken string) (string, error) {
	claims, err := m.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	return m.issue(claims.UserID, tokenTypeAccess, accessTokenTTL)
}
