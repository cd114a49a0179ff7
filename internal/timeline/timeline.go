// Package timeline holds the stateful, paginated view of a post feed that a
// live session keeps for its user.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/services"
)

var (
	// ErrBusy is returned when a page fetch is already in flight.
	ErrBusy = errors.New("timeline: page fetch in flight")
	// ErrUnknownPost is returned for mutations on posts the timeline does not hold.
	ErrUnknownPost = errors.New("timeline: post not loaded")
)

// Fetcher loads one enriched page, newest first.
type Fetcher func(ctx context.Context, page int) ([]models.PostView, error)

// Mutator performs the remote side of timeline mutations for one viewer.
type Mutator interface {
	SetLike(ctx context.Context, postID string, liked bool) error
	SetBookmark(ctx context.Context, postID string, saved bool) error
	DeletePost(ctx context.Context, postID string) error
}

// Snapshot is a copy of the timeline state.
type Snapshot struct {
	Posts   []models.PostView `json:"posts"`
	Page    int               `json:"page"`
	HasMore bool              `json:"has_more"`
}

// Timeline accumulates feed pages. At most one page fetch runs at a time;
// mutations change local state only after the remote call succeeded.
type Timeline struct {
	fetch  Fetcher
	mutate Mutator
	busy   atomic.Bool

	mu      sync.RWMutex
	posts   []models.PostView
	page    int
	hasMore bool
}

func New(fetch Fetcher, mutate Mutator) *Timeline {
	return &Timeline{fetch: fetch, mutate: mutate, hasMore: true}
}

// Load replaces the timeline with page 0.
func (t *Timeline) Load(ctx context.Context) error {
	return t.fetchPage(ctx, 0, true)
}

// Refresh resets pagination and reloads page 0.
func (t *Timeline) Refresh(ctx context.Context) error {
	return t.fetchPage(ctx, 0, true)
}

// LoadMore appends the next page. It is a no-op once the feed is exhausted.
func (t *Timeline) LoadMore(ctx context.Context) error {
	return t.fetchPage(ctx, -1, false)
}

// fetchPage loads page, or the page after the current one when page < 0.
func (t *Timeline) fetchPage(ctx context.Context, page int, replace bool) error {
	if !t.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer t.busy.Store(false)

	if page < 0 {
		t.mu.RLock()
		more, next := t.hasMore, t.page+1
		t.mu.RUnlock()
		if !more {
			return nil
		}
		page = next
	}

	posts, err := t.fetch(ctx, page)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.hasMore = false
		return fmt.Errorf("fetch page %d: %w", page, err)
	}
	if replace {
		t.posts = posts
	} else {
		t.posts = append(t.posts, posts...)
	}
	t.page = page
	t.hasMore = len(posts) == models.PostsPerPage
	return nil
}

// ToggleLike flips the viewer's like on postID and returns the updated post.
func (t *Timeline) ToggleLike(ctx context.Context, postID string) (models.PostView, error) {
	current, ok := t.find(postID)
	if !ok {
		return models.PostView{}, ErrUnknownPost
	}
	want := !current.IsLiked
	if err := t.mutate.SetLike(ctx, postID, want); err != nil {
		return current, err
	}
	return t.update(postID, func(p *models.PostView) { p.SetLiked(want) }), nil
}

// ToggleBookmark flips the viewer's bookmark on postID and returns the updated post.
func (t *Timeline) ToggleBookmark(ctx context.Context, postID string) (models.PostView, error) {
	current, ok := t.find(postID)
	if !ok {
		return models.PostView{}, ErrUnknownPost
	}
	want := !current.IsBookmarked
	if err := t.mutate.SetBookmark(ctx, postID, want); err != nil {
		return current, err
	}
	return t.update(postID, func(p *models.PostView) { p.IsBookmarked = want }), nil
}

// Delete removes the post remotely and then from the timeline.
func (t *Timeline) Delete(ctx context.Context, postID string) error {
	if err := t.mutate.DeletePost(ctx, postID); err != nil {
		return err
	}
	t.Remove(postID)
	return nil
}

// Remove drops postID from local state and reports whether it was present.
func (t *Timeline) Remove(postID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.posts {
		if t.posts[i].ID.Hex() == postID {
			t.posts = append(t.posts[:i:i], t.posts[i+1:]...)
			return true
		}
	}
	return false
}

// BumpComments adds delta to the post's comment count, never going below 0.
func (t *Timeline) BumpComments(postID string, delta int64) {
	t.update(postID, func(p *models.PostView) {
		p.CommentsCount += delta
		if p.CommentsCount < 0 {
			p.CommentsCount = 0
		}
	})
}

func (t *Timeline) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	posts := make([]models.PostView, len(t.posts))
	copy(posts, t.posts)
	return Snapshot{Posts: posts, Page: t.page, HasMore: t.hasMore}
}

// Busy reports whether a page fetch is in flight.
func (t *Timeline) Busy() bool { return t.busy.Load() }

func (t *Timeline) find(postID string) (models.PostView, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, p := range t.posts {
		if p.ID.Hex() == postID {
			return p, true
		}
	}
	return models.PostView{}, false
}

// update applies fn to the post if it is still loaded. The post may have been
// dropped by a concurrent refresh, in which case the zero value is returned.
func (t *Timeline) update(postID string, fn func(*models.PostView)) models.PostView {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.posts {
		if t.posts[i].ID.Hex() == postID {
			fn(&t.posts[i])
			return t.posts[i]
		}
	}
	return models.PostView{}
}

// FeedFetcher pages the global feed as seen by viewerID.
func FeedFetcher(feed *services.FeedService, viewerID uint) Fetcher {
	return func(ctx context.Context, page int) ([]models.PostView, error) {
		p, err := feed.Page(ctx, viewerID, page)
		if err != nil {
			return nil, err
		}
		return p.Posts, nil
	}
}

// PostMutator binds the post service to one viewer.
type PostMutator struct {
	Posts    *services.PostService
	ViewerID uint
}

func (m PostMutator) SetLike(ctx context.Context, postID string, liked bool) error {
	return m.Posts.SetLike(ctx, m.ViewerID, postID, liked)
}

func (m PostMutator) SetBookmark(ctx context.Context, postID string, saved bool) error {
	return m.Posts.SetBookmark(ctx, m.ViewerID, postID, saved)
}

func (m PostMutator) DeletePost(ctx context.Context, postID string) error {
	return m.Posts.Delete(ctx, m.ViewerID, postID)
}
