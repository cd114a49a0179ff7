package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/anonto42/linkup/backend/internal/hashtags"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

const reindexBatch = 100

type HashtagPage struct {
	Tag       string            `json:"tag"`
	PostCount int               `json:"post_count"`
	Posts     []models.PostView `json:"posts"`
}

type HashtagService struct {
	tags     repositories.HashtagRepository
	posts    repositories.PostRepository
	enricher *Enricher
}

func NewHashtagService(tags repositories.HashtagRepository, posts repositories.PostRepository, enricher *Enricher) *HashtagService {
	return &HashtagService{tags: tags, posts: posts, enricher: enricher}
}

// Save links postID to every tag in content. Linking an already linked tag
// is a no-op, so Save can be repeated.
func (s *HashtagService) Save(ctx context.Context, postID, content string) error {
	for _, name := range hashtags.Extract(content) {
		tag, err := s.tags.FindOrCreate(ctx, name)
		if err != nil {
			return fmt.Errorf("hashtag %q: %w", name, err)
		}
		if err := s.tags.LinkPost(ctx, postID, tag.ID); err != nil {
			return fmt.Errorf("link post %s to %q: %w", postID, name, err)
		}
	}
	return nil
}

// Replace drops the post's links and saves the tags in content.
func (s *HashtagService) Replace(ctx context.Context, postID, content string) error {
	if err := s.tags.UnlinkPost(ctx, postID); err != nil {
		return fmt.Errorf("unlink post %s: %w", postID, err)
	}
	return s.Save(ctx, postID, content)
}

// Page lists the posts carrying tag, newest first. An unknown tag yields an
// empty page.
func (s *HashtagService) Page(ctx context.Context, viewerID uint, tag string) (*HashtagPage, error) {
	name := hashtags.Normalize(tag)
	page := &HashtagPage{Tag: name, Posts: []models.PostView{}}
	if name == "" {
		return page, nil
	}

	row, err := s.tags.GetByName(ctx, name)
	if err != nil {
		if repositories.IsNotFound(err) {
			return page, nil
		}
		return nil, fmt.Errorf("hashtag %q: %w", name, err)
	}
	ids, err := s.tags.PostIDs(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("hashtag %q posts: %w", name, err)
	}
	posts, err := s.posts.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hashtag %q posts: %w", name, err)
	}
	page.Posts, err = s.enricher.Enrich(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	page.PostCount = len(page.Posts)
	return page, nil
}

// Reindex rebuilds the links of every post and returns how many posts it
// visited. A post that fails is logged and skipped.
func (s *HashtagService) Reindex(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	visited := 0
	for skip := int64(0); ; skip += reindexBatch {
		batch, err := s.posts.GetAllPosts(ctx, skip, reindexBatch)
		if err != nil {
			return visited, fmt.Errorf("reindex at %d: %w", skip, err)
		}
		for _, p := range batch {
			if err := s.Replace(ctx, p.ID.Hex(), p.Content); err != nil {
				log.Warn("reindex post failed", zap.String("post_id", p.ID.Hex()), zap.Error(err))
			}
			visited++
		}
		if len(batch) < reindexBatch {
			return visited, nil
		}
	}
}
