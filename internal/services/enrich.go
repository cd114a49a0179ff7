package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anonto42/linkup/backend/internal/metrics"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

// Enricher merges posts with their authors, aggregate counts and the
// viewer's own like and bookmark state.
type Enricher struct {
	users     repositories.UserRepository
	likes     repositories.LikeRepository
	comments  repositories.CommentRepository
	bookmarks repositories.BookmarkRepository
}

func NewEnricher(
	users repositories.UserRepository,
	likes repositories.LikeRepository,
	comments repositories.CommentRepository,
	bookmarks repositories.BookmarkRepository,
) *Enricher {
	return &Enricher{users: users, likes: likes, comments: comments, bookmarks: bookmarks}
}

// Enrich keeps the order of posts. A viewerID of 0 is anonymous and skips the
// per-viewer lookups. Any failed lookup fails the whole page.
func (e *Enricher) Enrich(ctx context.Context, viewerID uint, posts []models.Post) ([]models.PostView, error) {
	views := make([]models.PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	start := time.Now()
	defer func() { metrics.EnrichDuration.Observe(time.Since(start).Seconds()) }()

	postIDs := make([]string, len(posts))
	authorIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
		authorIDs[i] = p.UserID
	}

	var (
		profiles      map[uint]models.Profile
		likeCounts    map[string]int64
		commentCounts map[string]int64
		liked         map[string]bool
		saved         map[string]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profiles, err = e.Profiles(gctx, authorIDs)
		return err
	})
	g.Go(func() (err error) {
		likeCounts, err = e.likes.CountByPostIDs(gctx, postIDs)
		return err
	})
	g.Go(func() (err error) {
		commentCounts, err = e.comments.CountByPostIDs(gctx, postIDs)
		return err
	})
	if viewerID != 0 {
		g.Go(func() (err error) {
			liked, err = e.likes.LikedPostIDs(gctx, viewerID, postIDs)
			return err
		})
		g.Go(func() (err error) {
			saved, err = e.bookmarks.GetSavedPostIDs(gctx, viewerID, postIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enrich posts: %w", err)
	}

	for i, p := range posts {
		id := postIDs[i]
		views[i] = models.PostView{
			Post:          p,
			Profile:       profileOr(profiles, p.UserID),
			LikesCount:    likeCounts[id],
			CommentsCount: commentCounts[id],
			IsLiked:       liked[id],
			IsBookmarked:  saved[id],
		}
	}
	return views, nil
}

// EnrichOne is Enrich for a single post.
func (e *Enricher) EnrichOne(ctx context.Context, viewerID uint, post models.Post) (*models.PostView, error) {
	views, err := e.Enrich(ctx, viewerID, []models.Post{post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Profiles loads the public profiles of ids, keyed by user id. Missing users
// are absent from the map.
func (e *Enricher) Profiles(ctx context.Context, ids []uint) (map[uint]models.Profile, error) {
	ids = distinct(ids)
	out := make(map[uint]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := e.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	for i := range users {
		out[users[i].ID] = users[i].ToProfile()
	}
	return out, nil
}

func profileOr(profiles map[uint]models.Profile, id uint) models.Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return models.UnknownProfile(id)
}

func profilePtr(profiles map[uint]models.Profile, id uint) *models.Profile {
	p := profileOr(profiles, id)
	return &p
}
