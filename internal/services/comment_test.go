package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/linkup/backend/internal/comments"
	"github.com/anonto42/linkup/backend/internal/models"
)

func TestCommentThread(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	carol := e.user(t, "carol")
	postID := e.createPost(t, alice.ID, "discuss").ID.Hex()

	root, err := e.comment.Add(ctx, bob.ID, postID, models.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	assert.Equal(t, "bob", root.Profile.Username)

	reply, err := e.comment.Add(ctx, carol.ID, postID, models.CreateCommentRequest{Content: "reply", ParentCommentID: &root.ID})
	require.NoError(t, err)
	_, err = e.comment.Add(ctx, alice.ID, postID, models.CreateCommentRequest{Content: "deeper", ParentCommentID: &reply.ID})
	require.NoError(t, err)
	_, err = e.comment.Add(ctx, carol.ID, postID, models.CreateCommentRequest{Content: "second root"})
	require.NoError(t, err)

	thread, err := e.comment.Thread(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 4, thread.Count)
	assert.Equal(t, 4, comments.Count(thread.Comments))
	require.Len(t, thread.Comments, 2)
	assert.Equal(t, "first", thread.Comments[0].Content)
	require.Len(t, thread.Comments[0].Replies, 1)
	assert.Equal(t, 2, thread.Comments[0].Replies[0].Replies[0].Depth)

	// post author hears about bob's and carol's comments, bob about carol's reply
	assert.Len(t, e.notificationsFor(t, alice.ID), 3)
	bobNotes := e.notificationsFor(t, bob.ID)
	require.Len(t, bobNotes, 1)
	assert.Equal(t, "Carol replied to your comment", bobNotes[0].Message)
}

func TestCommentParentRules(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	p1 := e.createPost(t, alice.ID, "one").ID.Hex()
	p2 := e.createPost(t, alice.ID, "two").ID.Hex()

	missing := uint(999)
	_, err := e.comment.Add(ctx, alice.ID, p1, models.CreateCommentRequest{Content: "x", ParentCommentID: &missing})
	assert.ErrorIs(t, err, ErrParentNotFound)

	other, err := e.comment.Add(ctx, alice.ID, p2, models.CreateCommentRequest{Content: "on two"})
	require.NoError(t, err)
	_, err = e.comment.Add(ctx, alice.ID, p1, models.CreateCommentRequest{Content: "x", ParentCommentID: &other.ID})
	assert.ErrorIs(t, err, ErrParentNotFound)

	_, err = e.comment.Add(ctx, alice.ID, p1, models.CreateCommentRequest{Content: " "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = e.comment.Add(ctx, alice.ID, "000000000000000000000000", models.CreateCommentRequest{Content: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentUpdateDeleteOwnerOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	postID := e.createPost(t, alice.ID, "post").ID.Hex()

	c, err := e.comment.Add(ctx, bob.ID, postID, models.CreateCommentRequest{Content: "typo"})
	require.NoError(t, err)
	_, err = e.comment.Add(ctx, alice.ID, postID, models.CreateCommentRequest{Content: "child", ParentCommentID: &c.ID})
	require.NoError(t, err)

	_, err = e.comment.Update(ctx, alice.ID, c.ID, models.UpdateCommentRequest{Content: "nope"})
	assert.ErrorIs(t, err, ErrForbidden)

	fixed, err := e.comment.Update(ctx, bob.ID, c.ID, models.UpdateCommentRequest{Content: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, "fixed", fixed.Content)

	assert.ErrorIs(t, e.comment.Delete(ctx, alice.ID, c.ID), ErrForbidden)
	require.NoError(t, e.comment.Delete(ctx, bob.ID, c.ID))

	thread, err := e.comment.Thread(ctx, postID)
	require.NoError(t, err)
	assert.Zero(t, thread.Count, "replies go with their parent")
}
