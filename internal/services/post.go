package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/realtime"
	"github.com/anonto42/linkup/backend/internal/repositories"
	"github.com/anonto42/linkup/backend/pkg/logger"
)

type PostService struct {
	posts     repositories.PostRepository
	likes     repositories.LikeRepository
	bookmarks repositories.BookmarkRepository
	comments  repositories.CommentRepository
	hashtags  *HashtagService
	enricher  *Enricher
	notifier  *NotificationService
	publisher realtime.Publisher
}

func NewPostService(
	posts repositories.PostRepository,
	likes repositories.LikeRepository,
	bookmarks repositories.BookmarkRepository,
	comments repositories.CommentRepository,
	hashtags *HashtagService,
	enricher *Enricher,
	notifier *NotificationService,
	publisher realtime.Publisher,
) *PostService {
	return &PostService{
		posts:     posts,
		likes:     likes,
		bookmarks: bookmarks,
		comments:  comments,
		hashtags:  hashtags,
		enricher:  enricher,
		notifier:  notifier,
		publisher: publisher,
	}
}

// Create stores the post and then its hashtags. A hashtag failure is logged
// and the post is kept. The author's live timelines are told to refresh.
func (s *PostService) Create(ctx context.Context, userID uint, req models.CreatePostRequest) (*models.PostView, error) {
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	post := &models.Post{UserID: userID, Content: content, ImageURL: req.ImageURL}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := s.hashtags.Save(ctx, post.ID.Hex(), content); err != nil {
		logger.FromContext(ctx).Warn("post hashtags not saved", zap.String("post_id", post.ID.Hex()), zap.Error(err))
	}
	publish(ctx, s.publisher, realtime.Insert(realtime.TablePosts, 0, userID))

	return s.enricher.EnrichOne(ctx, userID, *post)
}

func (s *PostService) Get(ctx context.Context, viewerID uint, postID string) (*models.PostView, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, notFound("post "+postID, err)
	}
	return s.enricher.EnrichOne(ctx, viewerID, *post)
}

// Update changes an owned post and re-links its hashtags.
func (s *PostService) Update(ctx context.Context, userID uint, postID string, req models.UpdatePostRequest) (*models.PostView, error) {
	post, err := s.owned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	if req.Content != "" {
		content := strings.TrimSpace(req.Content)
		if content == "" {
			return nil, ErrEmptyContent
		}
		post.Content = content
	}
	if req.ImageURL != "" {
		post.ImageURL = req.ImageURL
	}
	if err := s.posts.UpdatePost(ctx, postID, post); err != nil {
		return nil, notFound("update post "+postID, err)
	}

	if err := s.hashtags.Replace(ctx, postID, post.Content); err != nil {
		logger.FromContext(ctx).Warn("post hashtags not updated", zap.String("post_id", postID), zap.Error(err))
	}
	return s.enricher.EnrichOne(ctx, userID, *post)
}

// Delete removes an owned post, then its likes, comments, bookmarks and
// hashtag links. Cleanup failures are logged.
func (s *PostService) Delete(ctx context.Context, userID uint, postID string) error {
	if _, err := s.owned(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return notFound("delete post "+postID, err)
	}

	log := logger.FromContext(ctx).With(zap.String("post_id", postID))
	cleanup := []struct {
		what string
		fn   func(context.Context, string) error
	}{
		{"likes", s.likes.DeleteByPostID},
		{"comments", s.comments.DeleteByPostID},
		{"bookmarks", s.bookmarks.DeleteByPostID},
		{"hashtags", s.hashtags.tags.UnlinkPost},
	}
	for _, c := range cleanup {
		if err := c.fn(ctx, postID); err != nil {
			log.Warn("post cleanup failed", zap.String("what", c.what), zap.Error(err))
		}
	}
	return nil
}

func (s *PostService) owned(ctx context.Context, userID uint, postID string) (*models.Post, error) {
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, notFound("post "+postID, err)
	}
	if post.UserID != userID {
		return nil, ErrForbidden
	}
	return post, nil
}

// SetLike makes the like state of postID equal to liked. A new like notifies the
// author.
func (s *PostService) SetLike(ctx context.Context, userID uint, postID string, liked bool) error {
	if err := requireViewer(userID); err != nil {
		return err
	}
	if !liked {
		err := s.likes.DeleteLike(ctx, postID, userID)
		if err != nil && !errors.Is(err, repositories.ErrLikeNotFound) {
			return fmt.Errorf("unlike post %s: %w", postID, err)
		}
		return nil
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return notFound("post "+postID, err)
	}
	added, err := s.likes.CreateLike(ctx, &models.PostLike{PostID: postID, UserID: userID})
	if err != nil {
		return fmt.Errorf("like post %s: %w", postID, err)
	}
	if !added {
		return nil
	}
	s.notifier.send(ctx, post.UserID, userID, models.NotificationLike, "liked your post", &postID, nil)
	return nil
}

// ToggleLike flips the viewer's like and returns the stored state.
func (s *PostService) ToggleLike(ctx context.Context, userID uint, postID string) (*models.LikeState, error) {
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	liked, err := s.likes.HasUserLikedPost(ctx, postID, userID)
	if err != nil {
		return nil, fmt.Errorf("like status %s: %w", postID, err)
	}
	if err := s.SetLike(ctx, userID, postID, !liked); err != nil {
		return nil, err
	}
	return s.LikeState(ctx, userID, postID)
}

func (s *PostService) LikeState(ctx context.Context, userID uint, postID string) (*models.LikeState, error) {
	count, err := s.likes.GetLikesCountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("like count %s: %w", postID, err)
	}
	state := &models.LikeState{PostID: postID, LikesCount: count}
	if userID != 0 {
		if state.IsLiked, err = s.likes.HasUserLikedPost(ctx, postID, userID); err != nil {
			return nil, fmt.Errorf("like status %s: %w", postID, err)
		}
	}
	return state, nil
}

// SetBookmark makes the bookmark state of postID equal to saved.
func (s *PostService) SetBookmark(ctx context.Context, userID uint, postID string, saved bool) error {
	if err := requireViewer(userID); err != nil {
		return err
	}
	if !saved {
		err := s.bookmarks.UnsavePost(ctx, userID, postID)
		if err != nil && !errors.Is(err, repositories.ErrBookmarkNotFound) {
			return fmt.Errorf("unsave post %s: %w", postID, err)
		}
		return nil
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return notFound("post "+postID, err)
	}
	if err := s.bookmarks.SavePost(ctx, &models.Bookmark{UserID: userID, PostID: postID}); err != nil {
		return fmt.Errorf("save post %s: %w", postID, err)
	}
	return nil
}

// ToggleBookmark flips the viewer's bookmark and returns the new state.
func (s *PostService) ToggleBookmark(ctx context.Context, userID uint, postID string) (bool, error) {
	if err := requireViewer(userID); err != nil {
		return false, err
	}
	saved, err := s.bookmarks.IsPostSaved(ctx, userID, postID)
	if err != nil {
		return false, fmt.Errorf("bookmark status %s: %w", postID, err)
	}
	if err := s.SetBookmark(ctx, userID, postID, !saved); err != nil {
		return saved, err
	}
	return !saved, nil
}
