package realtime

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/anonto42/linkup/backend/pkg/logger"
)

const subscriberBuffer = 32

// LocalBroker fans events out inside one process.
type LocalBroker struct {
	mu   sync.RWMutex
	subs map[*localSub]struct{}
}

type localSub struct {
	tables []string
	ch     chan Event
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[*localSub]struct{})}
}

// Publish never blocks; a subscriber whose buffer is full misses the event.
func (b *LocalBroker) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for s := range b.subs {
		if !slices.Contains(s.tables, event.Table) {
			continue
		}
		select {
		case s.ch <- event:
		default:
			logger.FromContext(ctx).Warn("realtime: subscriber buffer full, dropping event",
				zap.String("table", event.Table))
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, tables ...string) (<-chan Event, error) {
	s := &localSub{tables: tables, ch: make(chan Event, subscriberBuffer)}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, s)
		b.mu.Unlock()
		close(s.ch)
	}()
	return s.ch, nil
}
