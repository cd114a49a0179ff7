package repositories

import (
	"context"
	"fmt"

	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBookmarkNotFound = fmt.Errorf("bookmark not found")

// BookmarkRepository defines the interface for saved post operations
type BookmarkRepository interface {
	SavePost(ctx context.Context, bookmark *models.Bookmark) error
	UnsavePost(ctx context.Context, userID uint, postID string) error
	IsPostSaved(ctx context.Context, userID uint, postID string) (bool, error)
	GetBookmarksByUser(ctx context.Context, userID uint, skip, limit int) ([]models.Bookmark, error)
	GetSavedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error)
	DeleteByPostID(ctx context.Context, postID string) error
}

// PostgresBookmarkRepository implements BookmarkRepository
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

func (r *PostgresBookmarkRepository) SavePost(ctx context.Context, bookmark *models.Bookmark) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(bookmark).Error
}

func (r *PostgresBookmarkRepository) UnsavePost(ctx context.Context, userID uint, postID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

func (r *PostgresBookmarkRepository) IsPostSaved(ctx context.Context, userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresBookmarkRepository) GetBookmarksByUser(ctx context.Context, userID uint, skip, limit int) ([]models.Bookmark, error) {
	var saved []models.Bookmark
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&saved).Error
	return saved, err
}

func (r *PostgresBookmarkRepository) GetSavedPostIDs(ctx context.Context, userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var saved []models.Bookmark
	err := r.db.WithContext(ctx).Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&saved).Error
	if err != nil {
		return nil, err
	}
	for _, s := range saved {
		result[s.PostID] = true
	}
	return result, nil
}

func (r *PostgresBookmarkRepository) DeleteByPostID(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Bookmark{}).Error
}
