package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/auth"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Источник проверяется токеном при рукопожатии
	CheckOrigin: func(r *http.Request) bool { return true },
}

type clientMessage struct {
	Type string `json:"type"`
}

// Handler — живой канал /ws/transactions. Токен проверяется до
// апгрейда: без действительного access-токена соединение отклоняется,
// рукопожатие не начинается.
func Handler(manager *auth.Manager, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
			return
		}
		claims, err := manager.ParseAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Недействительный или истёкший токен"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("ошибка апгрейда websocket: %v", err)
			return
		}

		session := hub.Subscribe(GroupName(claims.UserID))

		welcome, _ := json.Marshal(gin.H{
			"type":    "connection_established",
			"message": "Подключено к обновлениям транзакций",
		})
		hub.QueueTo(session, welcome)

		go writePump(conn, session)
		readPump(conn, session, hub)
	}
}

// readPump читает входящие кадры клиента до разрыва соединения.
// Сейчас клиент шлёт только ping; остальное отвечается ошибкой.
func readPump(conn *websocket.Conn, session *Session, hub *Hub) {
	defer func() {
		hub.Unsubscribe(session)
		conn.Close()
	}()

	conn.SetReadLimit(1024)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			frame, _ := json.Marshal(gin.H{"type": "error", "message": "Некорректный JSON"})
			hub.QueueTo(session, frame)
			continue
		}

		if msg.Type == "ping" {
			frame, _ := json.Marshal(gin.H{"type": "pong"})
			hub.QueueTo(session, frame)
		}
	}
}

// writePump — единственный писатель в соединение: кадры из очереди
// сессии плюс периодические ping для keep-alive
func writePump(conn *websocket.Conn, session *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-session.Send():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
