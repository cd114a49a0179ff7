package repositories

import (
	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every relational table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PostLike{},
		&models.PostComment{},
		&models.Bookmark{},
		&models.Hashtag{},
		&models.PostHashtag{},
		&models.Follow{},
		&models.Conversation{},
		&models.ConversationParticipant{},
		&models.Message{},
		&models.GroupChat{},
		&models.GroupChatMember{},
		&models.GroupChatMessage{},
		&models.Notification{},
	)
}
