package realtime

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/anonto42/linkup/backend/pkg/logger"
)

const channelPrefix = "realtime:"

// RedisBroker shares events between server instances over Redis pub/sub.
type RedisBroker struct {
	client *redis.Client
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func channel(table string) string {
	return channelPrefix + table
}

func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := encode(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return b.client.Publish(ctx, channel(event.Table), payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, tables ...string) (<-chan Event, error) {
	channels := make([]string, len(tables))
	for i, t := range tables {
		channels[i] = channel(t)
	}

	pubsub := b.client.Subscribe(ctx, channels...)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %v: %w", channels, err)
	}

	out := make(chan Event, subscriberBuffer)
	go func() {
		log := logger.FromContext(ctx)
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					log.Warn("realtime: pubsub channel closed")
					return
				}
				event, err := decode([]byte(msg.Payload))
				if err != nil {
					log.Warn("realtime: bad event payload", zap.String("channel", msg.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
