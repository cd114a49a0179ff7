package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

// SearchLimit caps each result list.
const SearchLimit = 20

type SearchResults struct {
	Query string            `json:"query"`
	Users []models.Profile  `json:"users"`
	Posts []models.PostView `json:"posts"`
}

type SearchService struct {
	users    repositories.UserRepository
	posts    repositories.PostRepository
	enricher *Enricher
}

func NewSearchService(users repositories.UserRepository, posts repositories.PostRepository, enricher *Enricher) *SearchService {
	return &SearchService{users: users, posts: posts, enricher: enricher}
}

// Search matches users by name, username or bio and posts by content, both
// case-insensitively. A blank query returns empty lists without touching the
// stores.
func (s *SearchService) Search(ctx context.Context, viewerID uint, query string) (*SearchResults, error) {
	q := strings.TrimSpace(query)
	res := &SearchResults{Query: q, Users: []models.Profile{}, Posts: []models.PostView{}}
	if q == "" {
		return res, nil
	}

	var (
		users []models.User
		posts []models.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.SearchUsers(gctx, q, SearchLimit)
		return err
	})
	g.Go(func() (err error) {
		posts, err = s.posts.SearchPosts(gctx, q, SearchLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search %q: %w", q, err)
	}

	views, err := s.enricher.Enrich(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	res.Users = toProfiles(users)
	res.Posts = views
	return res, nil
}
