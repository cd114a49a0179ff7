package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostsPerPage is the feed page size.
const PostsPerPage = 10

// Post represents a social media post stored in MongoDB
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	Content   string             `json:"content" bson:"content"`
	ImageURL  string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// PostView is a post merged with its author and per-page aggregates.
type PostView struct {
	Post
	Profile       Profile `json:"profile"`
	LikesCount    int64   `json:"likes_count"`
	CommentsCount int64   `json:"comments_count"`
	IsLiked       bool    `json:"is_liked"`
	IsBookmarked  bool    `json:"is_bookmarked"`
}

// SetLiked moves IsLiked and LikesCount together. It is a no-op when the
// state already matches.
func (v *PostView) SetLiked(liked bool) {
	if v.IsLiked == liked {
		return
	}
	v.IsLiked = liked
	if liked {
		v.LikesCount++
	} else if v.LikesCount > 0 {
		v.LikesCount--
	}
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Content  string `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// PostLike is a like on a post
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"size:24;index;uniqueIndex:idx_post_user_like"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark is a post saved by a user
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_bookmark"`
	PostID    string    `json:"post_id" gorm:"size:24;index;uniqueIndex:idx_user_post_bookmark"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeState is the authoritative like status of a post for one viewer.
type LikeState struct {
	PostID     string `json:"post_id"`
	IsLiked    bool   `json:"is_liked"`
	LikesCount int64  `json:"likes_count"`
}
