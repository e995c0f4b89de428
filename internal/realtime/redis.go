package realtime

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// groupPattern — все группы рассылки транзакций
const groupPattern = "transactions_group_*"

// RedisLayer — общий слой каналов поверх Redis Pub/Sub: события,
// опубликованные любым процессом, доходят до сессий, подключённых
// к другим процессам. Без него сессии одного пользователя на разных
// инстансах не видят событий друг друга.
type RedisLayer struct {
	client *redis.Client
	hub    *Hub
}

func NewRedisLayer(redisURL string, hub *Hub) (*RedisLayer, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора REDIS_URL: %v", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к Redis: %v", err)
	}

	return &RedisLayer{client: client, hub: hub}, nil
}

// GroupSend публикует кадр в Redis; локальным сессиям он вернётся
// через подписку Run, как и сессиям остальных процессов
func (l *RedisLayer) GroupSend(group string, payload []byte) error {
	if err := l.client.Publish(context.Background(), group, payload).Err(); err != nil {
		return fmt.Errorf("ошибка публикации в Redis: %v", err)
	}
	return nil
}

// Run слушает группы рассылки и переправляет кадры в локальный хаб.
// Блокируется до отмены контекста; запускается отдельной горутиной.
func (l *RedisLayer) Run(ctx context.Context) {
	pubsub := l.client.PSubscribe(ctx, groupPattern)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				log.Println("подписка Redis закрыта")
				return
			}
			l.hub.Publish(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (l *RedisLayer) Close() error {
	return l.client.Close()
}
