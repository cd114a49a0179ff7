package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/linkup/backend/internal/comments"
	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

type CommentThread struct {
	PostID   string           `json:"post_id"`
	Count    int              `json:"count"`
	Comments []*comments.Node `json:"comments"`
}

type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	enricher *Enricher
	notifier *NotificationService
}

func NewCommentService(
	commentRepo repositories.CommentRepository,
	posts repositories.PostRepository,
	enricher *Enricher,
	notifier *NotificationService,
) *CommentService {
	return &CommentService{comments: commentRepo, posts: posts, enricher: enricher, notifier: notifier}
}

// Thread loads every comment on the post, oldest first, and nests replies.
func (s *CommentService) Thread(ctx context.Context, postID string) (*CommentThread, error) {
	rows, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("comments for %s: %w", postID, err)
	}
	views, err := s.withProfiles(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &CommentThread{PostID: postID, Count: len(rows), Comments: comments.BuildTree(views)}, nil
}

// Add stores a comment or a reply. A reply's parent must exist on the same
// post.
func (s *CommentService) Add(ctx context.Context, userID uint, postID string, req models.CreateCommentRequest) (*models.CommentView, error) {
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, notFound("post "+postID, err)
	}

	var parent *models.PostComment
	if req.ParentCommentID != nil {
		parent, err = s.comments.GetCommentByID(ctx, *req.ParentCommentID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("parent comment: %w", err)
		}
		if parent.PostID != postID {
			return nil, ErrParentNotFound
		}
	}

	c := &models.PostComment{PostID: postID, UserID: userID, Content: content, ParentCommentID: req.ParentCommentID}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.notifier.send(ctx, post.UserID, userID, models.NotificationComment, "commented on your post", &postID, &c.ID)
	if parent != nil && parent.UserID != post.UserID {
		s.notifier.send(ctx, parent.UserID, userID, models.NotificationComment, "replied to your comment", &postID, &c.ID)
	}

	views, err := s.withProfiles(ctx, []models.PostComment{*c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *CommentService) Update(ctx context.Context, userID, commentID uint, req models.UpdateCommentRequest) (*models.CommentView, error) {
	c, err := s.owned(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	c.Content = content
	if err := s.comments.UpdateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("update comment %d: %w", commentID, err)
	}
	views, err := s.withProfiles(ctx, []models.PostComment{*c})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete removes an owned comment together with its replies.
func (s *CommentService) Delete(ctx context.Context, userID, commentID uint) error {
	if _, err := s.owned(ctx, userID, commentID); err != nil {
		return err
	}
	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}
	return nil
}

func (s *CommentService) owned(ctx context.Context, userID, commentID uint) (*models.PostComment, error) {
	if err := requireViewer(userID); err != nil {
		return nil, err
	}
	c, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, notFound(fmt.Sprintf("comment %d", commentID), err)
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *CommentService) withProfiles(ctx context.Context, rows []models.PostComment) ([]models.CommentView, error) {
	ids := make([]uint, len(rows))
	for i, c := range rows {
		ids[i] = c.UserID
	}
	profiles, err := s.enricher.Profiles(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]models.CommentView, len(rows))
	for i, c := range rows {
		views[i] = models.CommentView{PostComment: c, Profile: profilePtr(profiles, c.UserID)}
	}
	return views, nil
}
