package models

import "time"

// Follow is a directed edge from follower to following
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowStats are the counts shown on a profile.
type FollowStats struct {
	Followers int64 `json:"followers_count"`
	Following int64 `json:"following_count"`
}
