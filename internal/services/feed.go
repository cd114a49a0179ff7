package services

import (
	"context"
	"fmt"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

// FeedPage is one page of enriched posts.
type FeedPage struct {
	Posts   []models.PostView `json:"posts"`
	Page    int               `json:"page"`
	HasMore bool              `json:"has_more"`
}

type FeedService struct {
	posts     repositories.PostRepository
	bookmarks repositories.BookmarkRepository
	enricher  *Enricher
}

func NewFeedService(posts repositories.PostRepository, bookmarks repositories.BookmarkRepository, enricher *Enricher) *FeedService {
	return &FeedService{posts: posts, bookmarks: bookmarks, enricher: enricher}
}

// Page returns page n (zero based) of all posts, newest first. HasMore is
// true when the page came back full.
func (s *FeedService) Page(ctx context.Context, viewerID uint, page int) (*FeedPage, error) {
	skip, limit := bounds(page)
	posts, err := s.posts.GetAllPosts(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("feed page %d: %w", page, err)
	}
	return s.build(ctx, viewerID, page, posts, len(posts))
}

// UserPage pages through the posts written by authorID.
func (s *FeedService) UserPage(ctx context.Context, viewerID, authorID uint, page int) (*FeedPage, error) {
	skip, limit := bounds(page)
	posts, err := s.posts.GetPostsByUserID(ctx, authorID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("user %d posts page %d: %w", authorID, page, err)
	}
	return s.build(ctx, viewerID, page, posts, len(posts))
}

// BookmarkPage pages through the viewer's bookmarks, most recently saved
// first. Bookmarks whose post is gone are skipped.
func (s *FeedService) BookmarkPage(ctx context.Context, viewerID uint, page int) (*FeedPage, error) {
	if err := requireViewer(viewerID); err != nil {
		return nil, err
	}
	skip, limit := bounds(page)
	marks, err := s.bookmarks.GetBookmarksByUser(ctx, viewerID, int(skip), int(limit))
	if err != nil {
		return nil, fmt.Errorf("bookmarks page %d: %w", page, err)
	}
	ids := make([]string, len(marks))
	for i, m := range marks {
		ids[i] = m.PostID
	}
	found, err := s.posts.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("bookmarked posts: %w", err)
	}
	return s.build(ctx, viewerID, page, orderByIDs(found, ids), len(marks))
}

func (s *FeedService) build(ctx context.Context, viewerID uint, page int, posts []models.Post, fetched int) (*FeedPage, error) {
	views, err := s.enricher.Enrich(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: views, Page: page, HasMore: fetched == models.PostsPerPage}, nil
}

func bounds(page int) (skip, limit int64) {
	if page < 0 {
		page = 0
	}
	return int64(page * models.PostsPerPage), models.PostsPerPage
}

// orderByIDs returns posts arranged in ids order, dropping ids with no post.
func orderByIDs(posts []models.Post, ids []string) []models.Post {
	byID := make(map[string]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID.Hex()] = p
	}
	out := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
