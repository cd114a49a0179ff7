package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

type FollowService struct {
	follows  repositories.FollowRepository
	users    repositories.UserRepository
	notifier *NotificationService
}

func NewFollowService(follows repositories.FollowRepository, users repositories.UserRepository, notifier *NotificationService) *FollowService {
	return &FollowService{follows: follows, users: users, notifier: notifier}
}

// Follow is idempotent. Only a new follow notifies the target.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) error {
	if err := s.checkTarget(ctx, followerID, targetID); err != nil {
		return err
	}
	already, err := s.follows.IsFollowing(ctx, followerID, targetID)
	if err != nil {
		return fmt.Errorf("follow status: %w", err)
	}
	if already {
		return nil
	}
	if err := s.follows.CreateFollow(ctx, &models.Follow{FollowerID: followerID, FollowingID: targetID}); err != nil {
		return fmt.Errorf("follow %d: %w", targetID, err)
	}
	s.notifier.send(ctx, targetID, followerID, models.NotificationFollow, "started following you", nil, nil)
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if err := requireViewer(followerID); err != nil {
		return err
	}
	err := s.follows.DeleteFollow(ctx, followerID, targetID)
	if err != nil && !errors.Is(err, repositories.ErrFollowNotFound) {
		return fmt.Errorf("unfollow %d: %w", targetID, err)
	}
	return nil
}

// Toggle flips the follow and reports whether followerID now follows targetID.
func (s *FollowService) Toggle(ctx context.Context, followerID, targetID uint) (bool, error) {
	if err := s.checkTarget(ctx, followerID, targetID); err != nil {
		return false, err
	}
	following, err := s.follows.IsFollowing(ctx, followerID, targetID)
	if err != nil {
		return false, fmt.Errorf("follow status: %w", err)
	}
	if following {
		return false, s.Unfollow(ctx, followerID, targetID)
	}
	return true, s.Follow(ctx, followerID, targetID)
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	if followerID == 0 || followerID == targetID {
		return false, nil
	}
	return s.follows.IsFollowing(ctx, followerID, targetID)
}

func (s *FollowService) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.follows.GetFollowingIDs(ctx, userID)
}

func (s *FollowService) Stats(ctx context.Context, userID uint) (models.FollowStats, error) {
	var stats models.FollowStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Followers, err = s.follows.GetFollowersCount(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		stats.Following, err = s.follows.GetFollowingCount(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.FollowStats{}, fmt.Errorf("follow stats %d: %w", userID, err)
	}
	return stats, nil
}

func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.Profile, error) {
	users, err := s.follows.GetFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("followers of %d: %w", userID, err)
	}
	return toProfiles(users), nil
}

func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.Profile, error) {
	users, err := s.follows.GetFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("following of %d: %w", userID, err)
	}
	return toProfiles(users), nil
}

func (s *FollowService) checkTarget(ctx context.Context, followerID, targetID uint) error {
	if err := requireViewer(followerID); err != nil {
		return err
	}
	if followerID == targetID {
		return ErrSelfFollow
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return notFound(fmt.Sprintf("user %d", targetID), err)
	}
	return nil
}

func toProfiles(users []models.User) []models.Profile {
	out := make([]models.Profile, len(users))
	for i := range users {
		out[i] = users[i].ToProfile()
	}
	return out
}
