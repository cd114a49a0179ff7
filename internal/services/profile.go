package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

// ProfilePage is everything a profile screen shows on first load.
type ProfilePage struct {
	Profile     models.Profile     `json:"profile"`
	Stats       models.FollowStats `json:"stats"`
	IsFollowing bool               `json:"is_following"`
	IsOwn       bool               `json:"is_own"`
	Posts       *FeedPage          `json:"posts"`
}

type ProfileService struct {
	users   repositories.UserRepository
	follows *FollowService
	feed    *FeedService
}

func NewProfileService(users repositories.UserRepository, follows *FollowService, feed *FeedService) *ProfileService {
	return &ProfileService{users: users, follows: follows, feed: feed}
}

func (s *ProfileService) ByID(ctx context.Context, viewerID, userID uint) (*ProfilePage, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(fmt.Sprintf("user %d", userID), err)
	}
	return s.page(ctx, viewerID, user)
}

func (s *ProfileService) ByUsername(ctx context.Context, viewerID uint, username string) (*ProfilePage, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimPrefix(username, "@"))
	if err != nil {
		return nil, notFound("user "+username, err)
	}
	return s.page(ctx, viewerID, user)
}

func (s *ProfileService) page(ctx context.Context, viewerID uint, user *models.User) (*ProfilePage, error) {
	p := &ProfilePage{Profile: user.ToProfile(), IsOwn: viewerID == user.ID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		p.Stats, err = s.follows.Stats(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		p.IsFollowing, err = s.follows.IsFollowing(gctx, viewerID, user.ID)
		return err
	})
	g.Go(func() (err error) {
		p.Posts, err = s.feed.UserPage(gctx, viewerID, user.ID, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Me(ctx context.Context, userID uint) (*models.User, error) {
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(fmt.Sprintf("user %d", userID), err)
	}
	return user, nil
}

// Update applies the non-nil fields of req. A username taken by another
// account is a conflict.
func (s *ProfileService) Update(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && !strings.EqualFold(*req.Username, user.Username) {
		other, err := s.users.GetUserByUsername(ctx, *req.Username)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, fmt.Errorf("username %s: %w", *req.Username, ErrConflict)
		case err != nil && !repositories.IsNotFound(err):
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Work != nil {
		user.Work = strings.TrimSpace(*req.Work)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.CoverURL != nil {
		user.CoverURL = *req.CoverURL
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *ProfileService) Delete(ctx context.Context, userID uint) error {
	if err := requireViewer(userID); err != nil {
		return err
	}
	return s.users.DeleteUser(ctx, userID)
}
