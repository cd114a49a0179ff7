package models

import "time"

type Hashtag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

type PostHashtag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"size:24;index;uniqueIndex:idx_post_hashtag"`
	HashtagID uint      `json:"hashtag_id" gorm:"index;uniqueIndex:idx_post_hashtag"`
	CreatedAt time.Time `json:"created_at"`
}
