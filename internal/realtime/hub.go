package realtime

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// sessionBuffer — ёмкость исходящей очереди одной сессии. Канал
// наполняется под блокировкой хаба, поэтому порядок событий внутри
// потока одного пользователя сохраняется.
const sessionBuffer = 32

// ChannelLayer доставляет событие всем подписчикам группы.
// Локальный Hub реализует её для одного процесса, RedisLayer — для многих.
type ChannelLayer interface {
	GroupSend(group string, payload []byte) error
}

// GroupName — имя группы рассылки для пользователя
func GroupName(userID int) string {
	return fmt.Sprintf("transactions_group_%d", userID)
}

// Session — одна живая подписка (одна вкладка браузера)
type Session struct {
	ID    uuid.UUID
	group string
	send  chan []byte
}

// Send — канал исходящих кадров сессии; закрывается при отписке
func (s *Session) Send() <-chan []byte {
	return s.send
}

// Hub — реестр подписок: группа пользователя -> открытые сессии.
// Безопасен для конкурентной регистрации, отписки и публикации.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Session]struct{}
}

func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[*Session]struct{})}
}

// Subscribe регистрирует новую сессию в группе
func (h *Hub) Subscribe(group string) *Session {
	session := &Session{
		ID:    uuid.New(),
		group: group,
		send:  make(chan []byte, sessionBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.groups[group] == nil {
		h.groups[group] = make(map[*Session]struct{})
	}
	h.groups[group][session] = struct{}{}
	return session
}

// Unsubscribe убирает сессию из реестра и закрывает её канал.
// Недоставленные кадры пропадают: переподключившийся клиент
// перечитывает состояние через REST.
func (h *Hub) Unsubscribe(session *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sessions, ok := h.groups[session.group]
	if !ok {
		return
	}
	if _, ok := sessions[session]; !ok {
		return
	}
	delete(sessions, session)
	if len(sessions) == 0 {
		delete(h.groups, session.group)
	}
	close(session.send)
}

// Publish раздаёт кадр всем сессиям группы. Если очередь сессии
// переполнена, кадр для неё молча пропускается — писатель не ждёт
// медленного клиента.
func (h *Hub) Publish(group string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for session := range h.groups[group] {
		select {
		case session.send <- payload:
		default:
		}
	}
}

// GroupSend реализует ChannelLayer в пределах одного процесса
func (h *Hub) GroupSend(group string, payload []byte) error {
	h.Publish(group, payload)
	return nil
}

// QueueTo кладёт кадр в очередь одной конкретной сессии (служебные
// ответы вроде pong), не трогая остальных подписчиков группы
func (h *Hub) QueueTo(session *Session, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if sessions, ok := h.groups[session.group]; ok {
		if _, ok := sessions[session]; ok {
			select {
			case session.send <- payload:
			default:
			}
		}
	}
}
