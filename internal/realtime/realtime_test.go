package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventConcerns(t *testing.T) {
	assert.True(t, Insert(TableMessages, 1).Concerns(9), "empty audience is everyone")

	e := Insert(TableNotifications, 1, 4, 5)
	assert.True(t, e.Concerns(4))
	assert.True(t, e.Concerns(5))
	assert.False(t, e.Concerns(6))
	assert.Equal(t, TypeInsert, e.Type)
}

func TestEncodeDecode(t *testing.T) {
	in := Insert(TableGroupMessages, 12, 1, 2)
	payload, err := encode(in)
	require.NoError(t, err)

	out, err := decode(payload)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = decode([]byte("{"))
	assert.Error(t, err)
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "realtime:messages", channel(TableMessages))
}

func TestLocalBrokerRoutesByTable(t *testing.T) {
	b := NewLocalBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := b.Subscribe(ctx, TableMessages)
	require.NoError(t, err)
	notes, err := b.Subscribe(ctx, TableNotifications, TableGroupMessages)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, Insert(TableNotifications, 3, 7)))
	require.NoError(t, b.Publish(ctx, Insert(TableMessages, 4)))

	select {
	case e := <-msgs:
		assert.Equal(t, uint(4), e.RecordID)
	case <-time.After(time.Second):
		t.Fatal("message event not delivered")
	}

	select {
	case e := <-notes:
		assert.Equal(t, TableNotifications, e.Table)
	case <-time.After(time.Second):
		t.Fatal("notification event not delivered")
	}

	assert.Empty(t, msgs)
	assert.Empty(t, notes)
}

func TestLocalBrokerClosesOnCancel(t *testing.T) {
	b := NewLocalBroker()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx, TableMessages)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}

	require.Eventually(t, func() bool {
		b.mu.RLock()
		defer b.mu.RUnlock()
		return len(b.subs) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestLocalBrokerDropsWhenFull(t *testing.T) {
	b := NewLocalBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := b.Subscribe(ctx, TableMessages)
	require.NoError(t, err)

	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, b.Publish(ctx, Insert(TableMessages, uint(i))))
	}
	assert.Len(t, ch, subscriberBuffer)
}
