package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/linkup/backend/internal/models"
)

func TestFollowToggle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	following, err := e.follow.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	ok, err := e.follow.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	stats, err := e.follow.Stats(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowStats{Followers: 1, Following: 0}, stats)

	followers, err := e.follow.Followers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	notes := e.notificationsFor(t, bob.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationFollow, notes[0].Type)
	assert.Equal(t, "Alice started following you", notes[0].Message)

	following, err = e.follow.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	ids, err := e.follow.FollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFollowRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	assert.ErrorIs(t, e.follow.Follow(ctx, alice.ID, alice.ID), ErrSelfFollow)
	assert.ErrorIs(t, e.follow.Follow(ctx, alice.ID, 999), ErrNotFound)
	assert.ErrorIs(t, e.follow.Follow(ctx, 0, bob.ID), ErrNotAuthenticated)

	require.NoError(t, e.follow.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, e.follow.Follow(ctx, alice.ID, bob.ID))
	assert.Len(t, e.notificationsFor(t, bob.ID), 1, "repeat follow does not notify again")

	require.NoError(t, e.follow.Unfollow(ctx, alice.ID, bob.ID))
	require.NoError(t, e.follow.Unfollow(ctx, alice.ID, bob.ID))

	self, err := e.follow.IsFollowing(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, self)
}
