package models

import "time"

// PostComment is a comment on a post. ParentCommentID links replies.
type PostComment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PostID          string    `json:"post_id" gorm:"size:24;index"`
	UserID          uint      `json:"user_id" gorm:"index"`
	Content         string    `json:"content"`
	ParentCommentID *uint     `json:"parent_comment_id" gorm:"index"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CommentView is a comment with its author profile.
type CommentView struct {
	PostComment
	Profile *Profile `json:"profile,omitempty"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required,min=1,max=2000"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
