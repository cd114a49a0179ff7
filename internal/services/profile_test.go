package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/linkup/backend/internal/models"
)

func TestProfilePage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	e.createPost(t, alice.ID, "hello")
	require.NoError(t, e.follow.Follow(ctx, bob.ID, alice.ID))

	page, err := e.profile.ByUsername(ctx, bob.ID, "@Alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, page.Profile.UserID)
	assert.True(t, page.IsFollowing)
	assert.False(t, page.IsOwn)
	assert.Equal(t, int64(1), page.Stats.Followers)
	require.Len(t, page.Posts.Posts, 1)

	own, err := e.profile.ByID(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, own.IsOwn)
	assert.False(t, own.IsFollowing)

	_, err = e.profile.ByID(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProfileUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	e.user(t, "bob")

	bio := "  hiking and go  "
	name := "Alice A."
	updated, err := e.profile.Update(ctx, alice.ID, models.UpdateProfileRequest{Bio: &bio, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "hiking and go", updated.Bio)
	assert.Equal(t, "Alice A.", updated.Name)

	taken := "Bob"
	_, err = e.profile.Update(ctx, alice.ID, models.UpdateProfileRequest{Username: &taken})
	assert.ErrorIs(t, err, ErrConflict)

	same := "ALICE"
	renamed, err := e.profile.Update(ctx, alice.ID, models.UpdateProfileRequest{Username: &same})
	require.NoError(t, err)
	assert.Equal(t, "alice", renamed.Username, "case-only change keeps the stored name")
}

func TestHashtagReindex(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")

	require.NoError(t, e.posts.CreatePost(ctx, &models.Post{UserID: alice.ID, Content: "raw #Import"}))
	require.NoError(t, e.posts.CreatePost(ctx, &models.Post{UserID: alice.ID, Content: "again #import #Other"}))

	before, err := e.hashtag.Page(ctx, alice.ID, "import")
	require.NoError(t, err)
	assert.Zero(t, before.PostCount)

	n, err := e.hashtag.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	after, err := e.hashtag.Page(ctx, alice.ID, "import")
	require.NoError(t, err)
	assert.Equal(t, 2, after.PostCount)

	_, err = e.hashtag.Reindex(ctx)
	require.NoError(t, err)
	again, err := e.hashtag.Page(ctx, alice.ID, "import")
	require.NoError(t, err)
	assert.Equal(t, 2, again.PostCount)
}
