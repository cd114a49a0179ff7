package repositories

import (
	"context"

	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.PostComment) error
	GetCommentByID(ctx context.Context, id uint) (*models.PostComment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]models.PostComment, error)
	CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
	UpdateComment(ctx context.Context, comment *models.PostComment) error
	DeleteComment(ctx context.Context, id uint) error
	DeleteByPostID(ctx context.Context, postID string) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.PostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *PostgresCommentRepository) GetCommentByID(ctx context.Context, id uint) (*models.PostComment, error) {
	var comment models.PostComment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID returns the flat comment list, oldest first
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.PostComment, error) {
	var comments []models.PostComment
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *PostgresCommentRepository) CountByPostIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countByPost(ctx, r.db, &models.PostComment{}, postIDs)
}

func (r *PostgresCommentRepository) UpdateComment(ctx context.Context, comment *models.PostComment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteComment removes the comment and every reply below it.
func (r *PostgresCommentRepository) DeleteComment(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending := []uint{id}
		for len(pending) > 0 {
			var children []uint
			if err := tx.Model(&models.PostComment{}).Where("parent_comment_id IN ?", pending).Pluck("id", &children).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.PostComment{}, pending).Error; err != nil {
				return err
			}
			pending = children
		}
		return nil
	})
}

func (r *PostgresCommentRepository) DeleteByPostID(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.PostComment{}).Error
}
