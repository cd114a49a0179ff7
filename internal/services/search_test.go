package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/testutil"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepo) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepo) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *MockUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) DeleteUser(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepo) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]models.User), args.Error(1)
}

func TestSearchBlankQuerySkipsStores(t *testing.T) {
	users := new(MockUserRepo)
	posts := testutil.NewMemPosts()
	svc := NewSearchService(users, posts, nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		res, err := svc.Search(context.Background(), 1, q)
		require.NoError(t, err)
		assert.Empty(t, res.Users)
		assert.Empty(t, res.Posts)
	}

	users.AssertNotCalled(t, "SearchUsers", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, posts.Calls())
}

func TestSearchUsersAndPosts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	require.NoError(t, e.db.Model(bob).Update("bio", "Gopher at heart").Error)

	e.createPost(t, alice.ID, "Learning GO generics")
	e.createPost(t, alice.ID, "cooking pasta")

	res, err := e.search.Search(ctx, bob.ID, "  go ")
	require.NoError(t, err)
	assert.Equal(t, "go", res.Query)

	require.Len(t, res.Users, 1)
	assert.Equal(t, "bob", res.Users[0].Username)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "Learning GO generics", res.Posts[0].Content)
	assert.Equal(t, "alice", res.Posts[0].Profile.Username)
}
