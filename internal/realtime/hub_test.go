package realtime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valeriaulyamaeva/impulse-tracker/internal/realtime"
)

func receive(t *testing.T, session *realtime.Session) []byte {
	t.Helper()
	select {
	case payload, ok := <-session.Send():
		require.True(t, ok, "канал сессии закрыт раньше времени")
		return payload
	case <-time.After(time.Second):
		t.Fatal("кадр не пришёл за секунду")
		return nil
	}
}

func TestPublishReachesAllUserSessions(t *testing.T) {
	hub := realtime.NewHub()
	group := realtime.GroupName(1)

	first := hub.Subscribe(group)
	second := hub.Subscribe(group)

	hub.Publish(group, []byte("event"))

	assert.Equal(t, "event", string(receive(t, first)))
	assert.Equal(t, "event", string(receive(t, second)))
}

func TestPublishIsolatedBetweenUsers(t *testing.T) {
	hub := realtime.NewHub()

	mine := hub.Subscribe(realtime.GroupName(1))
	other := hub.Subscribe(realtime.GroupName(2))

	hub.Publish(realtime.GroupName(1), []byte("private"))

	assert.Equal(t, "private", string(receive(t, mine)))
	select {
	case payload := <-other.Send():
		t.Fatalf("чужая сессия получила кадр: %s", payload)
	default:
	}
}

func TestPublishKeepsOrder(t *testing.T) {
	hub := realtime.NewHub()
	group := realtime.GroupName(5)
	session := hub.Subscribe(group)

	hub.Publish(group, []byte("first"))
	hub.Publish(group, []byte("second"))
	hub.Publish(group, []byte("third"))

	assert.Equal(t, "first", string(receive(t, session)))
	assert.Equal(t, "second", string(receive(t, session)))
	assert.Equal(t, "third", string(receive(t, session)))
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := realtime.NewHub()
	session := hub.Subscribe(realtime.GroupName(3))

	hub.Unsubscribe(session)

	_, ok := <-session.Send()
	assert.False(t, ok, "канал должен закрываться при отписке")

	// Повторная отписка — безопасный no-op
	hub.Unsubscribe(session)

	// Публикация после отписки никуда не попадает и не паникует
	hub.Publish(realtime.GroupName(3), []byte("late"))
}

func TestSlowSessionDropsFrames(t *testing.T) {
	hub := realtime.NewHub()
	group := realtime.GroupName(9)
	session := hub.Subscribe(group)

	// Переполняем очередь: лишние кадры пропадают, Publish не блокируется
	for i := 0; i < 100; i++ {
		hub.Publish(group, []byte("frame"))
	}

	drained := 0
	for {
		select {
		case <-session.Send():
			drained++
			continue
		default:
		}
		break
	}
	assert.Less(t, drained, 100)
	assert.Greater(t, drained, 0)
}

func TestQueueToSingleSession(t *testing.T) {
	hub := realtime.NewHub()
	group := realtime.GroupName(4)

	target := hub.Subscribe(group)
	bystander := hub.Subscribe(group)

	hub.QueueTo(target, []byte("pong"))

	assert.Equal(t, "pong", string(receive(t, target)))
	select {
	case payload := <-bystander.Send():
		t.Fatalf("соседняя сессия получила адресный кадр: %s", payload)
	default:
	}
}
