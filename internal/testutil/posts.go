package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

var _ repositories.PostRepository = (*MemPosts)(nil)

// MemPosts is an in-memory PostRepository. Posts are stamped one minute
// apart so ordering by created_at is deterministic.
type MemPosts struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.Post
	clock time.Time
	calls int
}

func NewMemPosts() *MemPosts {
	return &MemPosts{
		posts: make(map[primitive.ObjectID]models.Post),
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *MemPosts) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	post.ID = primitive.NewObjectID()
	post.CreatedAt = m.clock
	post.UpdatedAt = m.clock
	m.posts[post.ID] = *post
	return nil
}

func (m *MemPosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrPostNotFound
	}
	p, ok := m.posts[oid]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return &p, nil
}

func (m *MemPosts) GetPostsByIDs(_ context.Context, ids []string) ([]models.Post, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return m.filter(func(p models.Post) bool { return want[p.ID.Hex()] }, 0, 0), nil
}

func (m *MemPosts) GetPostsByUserID(_ context.Context, userID uint, skip, limit int64) ([]models.Post, error) {
	return m.filter(func(p models.Post) bool { return p.UserID == userID }, skip, limit), nil
}

func (m *MemPosts) GetAllPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	return m.filter(func(models.Post) bool { return true }, skip, limit), nil
}

func (m *MemPosts) SearchPosts(_ context.Context, query string, limit int64) ([]models.Post, error) {
	q := strings.ToLower(query)
	return m.filter(func(p models.Post) bool { return strings.Contains(strings.ToLower(p.Content), q) }, 0, limit), nil
}

func (m *MemPosts) UpdatePost(_ context.Context, id string, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, _ := primitive.ObjectIDFromHex(id)
	p, ok := m.posts[oid]
	if !ok {
		return repositories.ErrPostNotFound
	}
	p.Content = post.Content
	p.ImageURL = post.ImageURL
	m.posts[oid] = p
	return nil
}

func (m *MemPosts) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, _ := primitive.ObjectIDFromHex(id)
	if _, ok := m.posts[oid]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(m.posts, oid)
	return nil
}

func (m *MemPosts) filter(keep func(models.Post) bool, skip, limit int64) []models.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []models.Post{}
	for _, p := range m.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if skip >= int64(len(out)) {
		return []models.Post{}
	}
	out = out[skip:]
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

// Calls counts the list queries served.
func (m *MemPosts) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
