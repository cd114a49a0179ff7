package models

import "time"

type NotificationType string

const (
	NotificationLike        NotificationType = "like"
	NotificationComment     NotificationType = "comment"
	NotificationFollow      NotificationType = "follow"
	NotificationMessage     NotificationType = "message"
	NotificationGroupInvite NotificationType = "group_invite"
	NotificationShare       NotificationType = "share"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"index"` // recipient
	ActorID   *uint            `json:"actor_id" gorm:"index"`
	Type      NotificationType `json:"type" gorm:"size:20;index"`
	PostID    *string          `json:"post_id" gorm:"size:24"`
	CommentID *uint            `json:"comment_id"`
	Message   string           `json:"message"`
	Read      bool             `json:"read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
}

// NotificationView includes actor info
type NotificationView struct {
	Notification
	Actor *Profile `json:"actor,omitempty"`
}
