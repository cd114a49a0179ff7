package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/realtime"
)

func TestNotifySkipsSelfAndPublishes(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	events, err := e.broker.Subscribe(ctx, realtime.TableNotifications)
	require.NoError(t, err)

	self := alice.ID
	require.NoError(t, e.notify.Notify(ctx, &models.Notification{UserID: alice.ID, ActorID: &self, Type: models.NotificationLike}))
	assert.Empty(t, e.notificationsFor(t, alice.ID))

	actor := bob.ID
	n := &models.Notification{UserID: alice.ID, ActorID: &actor, Type: models.NotificationFollow, Message: "Bob started following you"}
	require.NoError(t, e.notify.Notify(ctx, n))

	select {
	case ev := <-events:
		assert.Equal(t, n.ID, ev.RecordID)
		assert.True(t, ev.Concerns(alice.ID))
		assert.False(t, ev.Concerns(bob.ID))
	case <-time.After(time.Second):
		t.Fatal("no realtime event")
	}
}

func TestNotificationListAndRead(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	carol := e.user(t, "carol")

	require.NoError(t, e.follow.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, e.follow.Follow(ctx, carol.ID, alice.ID))

	list, err := e.notify.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, 2, list.UnreadCount)
	assert.Equal(t, "carol", list.Notifications[0].Actor.Username, "newest first")

	require.NoError(t, e.notify.MarkRead(ctx, alice.ID, list.Notifications[0].ID))
	require.NoError(t, e.notify.MarkRead(ctx, bob.ID, list.Notifications[1].ID), "foreign id is a no-op")

	unread, err := e.notify.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, e.notify.MarkAllRead(ctx, alice.ID))
	unread, err = e.notify.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	_, err = e.notify.List(ctx, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestGroupNotifications(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	at := func(d time.Duration) models.NotificationView {
		return models.NotificationView{Notification: models.Notification{CreatedAt: now.Add(-d)}}
	}

	g := GroupNotifications([]models.NotificationView{
		at(time.Hour),
		at(15 * time.Hour),
		at(16 * time.Hour),
		at(3 * 24 * time.Hour),
		at(6 * 24 * time.Hour),
		at(7 * 24 * time.Hour),
	}, now)

	assert.Len(t, g.Today, 2)
	assert.Len(t, g.Yesterday, 1)
	assert.Len(t, g.ThisWeek, 2)
	assert.Len(t, g.Older, 1)
}
