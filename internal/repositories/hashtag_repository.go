package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HashtagRepository stores hashtags and their post associations
type HashtagRepository interface {
	FindOrCreate(ctx context.Context, name string) (*models.Hashtag, error)
	GetByName(ctx context.Context, name string) (*models.Hashtag, error)
	LinkPost(ctx context.Context, postID string, hashtagID uint) error
	UnlinkPost(ctx context.Context, postID string) error
	PostIDs(ctx context.Context, hashtagID uint) ([]string, error)
}

type PostgresHashtagRepository struct {
	db *gorm.DB
}

func NewPostgresHashtagRepository(db *gorm.DB) *PostgresHashtagRepository {
	return &PostgresHashtagRepository{db: db}
}

// FindOrCreate upserts by name. A concurrent insert of the same name is
// absorbed by the unique index and the existing row is re-read.
func (r *PostgresHashtagRepository) FindOrCreate(ctx context.Context, name string) (*models.Hashtag, error) {
	existing, err := r.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	tag := models.Hashtag{Name: name}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
		return nil, err
	}
	if tag.ID != 0 {
		return &tag, nil
	}
	return r.GetByName(ctx, name)
}

func (r *PostgresHashtagRepository) GetByName(ctx context.Context, name string) (*models.Hashtag, error) {
	var tag models.Hashtag
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *PostgresHashtagRepository) LinkPost(ctx context.Context, postID string, hashtagID uint) error {
	link := models.PostHashtag{PostID: postID, HashtagID: hashtagID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *PostgresHashtagRepository) UnlinkPost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.PostHashtag{}).Error
}

func (r *PostgresHashtagRepository) PostIDs(ctx context.Context, hashtagID uint) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.PostHashtag{}).Where("hashtag_id = ?", hashtagID).Pluck("post_id", &ids).Error
	return ids, err
}

// IsNotFound reports whether err is a missing-row error from gorm.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
