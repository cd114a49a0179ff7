package comments

import (
	"testing"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id uint, parent *uint) models.CommentView {
	return models.CommentView{PostComment: models.PostComment{ID: id, ParentCommentID: parent}}
}

func ptr(v uint) *uint { return &v }

func TestBuildTree(t *testing.T) {
	flat := []models.CommentView{
		comment(1, nil),
		comment(2, ptr(1)),
		comment(3, ptr(2)),
		comment(4, ptr(3)),
		comment(5, ptr(99)),
		comment(6, nil),
		comment(7, ptr(1)),
	}

	roots := BuildTree(flat)

	require.Len(t, roots, 3)
	assert.Equal(t, []uint{1, 5, 6}, ids(roots))
	assert.Equal(t, len(flat), Count(roots), "every comment placed exactly once")

	one := roots[0]
	assert.Equal(t, []uint{2, 7}, ids(one.Replies))
	assert.Equal(t, 0, one.Depth)
	assert.True(t, one.CanReply)
	assert.True(t, one.AutoExpand)

	two := one.Replies[0]
	assert.Equal(t, 1, two.Depth)
	assert.True(t, two.AutoExpand)

	three := two.Replies[0]
	assert.Equal(t, 2, three.Depth)
	assert.True(t, three.CanReply)
	assert.False(t, three.AutoExpand)

	four := three.Replies[0]
	assert.Equal(t, 3, four.Depth)
	assert.False(t, four.CanReply)
	assert.Empty(t, four.Replies)
}

func TestBuildTreeOrphanIsRoot(t *testing.T) {
	roots := BuildTree([]models.CommentView{comment(10, ptr(3))})
	require.Len(t, roots, 1)
	assert.Equal(t, uint(10), roots[0].ID)
	assert.Equal(t, 0, roots[0].Depth)
}

func TestBuildTreeSelfParent(t *testing.T) {
	roots := BuildTree([]models.CommentView{comment(1, ptr(1))})
	assert.Equal(t, 1, Count(roots))
}

func TestBuildTreeEmpty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
}

func ids(nodes []*Node) []uint {
	out := make([]uint, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
