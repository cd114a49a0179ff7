package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository covers two-party conversations and their messages
type ConversationRepository interface {
	ConversationIDsForUser(ctx context.Context, userID uint) ([]uint, error)
	GetConversationsByIDs(ctx context.Context, ids []uint) ([]models.Conversation, error)
	ParticipantIDs(ctx context.Context, conversationID uint) ([]uint, error)
	OtherParticipants(ctx context.Context, userID uint, conversationIDs []uint) ([]models.ConversationParticipant, error)
	IsParticipant(ctx context.Context, conversationID, userID uint) (bool, error)
	FindDirect(ctx context.Context, userA, userB uint) (uint, error)
	CreateConversation(ctx context.Context, userIDs []uint) (*models.Conversation, error)
	LatestMessage(ctx context.Context, conversationID uint) (*models.Message, error)
	GetMessages(ctx context.Context, conversationID uint) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	Touch(ctx context.Context, conversationID uint, at time.Time) error
}

type PostgresConversationRepository struct {
	db *gorm.DB
}

func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) ConversationIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Pluck("conversation_id", &ids).Error
	return ids, err
}

// GetConversationsByIDs returns conversations with the most recently active first
func (r *PostgresConversationRepository) GetConversationsByIDs(ctx context.Context, ids []uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if len(ids) == 0 {
		return conversations, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).
		Order("updated_at DESC, id DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *PostgresConversationRepository) ParticipantIDs(ctx context.Context, conversationID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *PostgresConversationRepository) OtherParticipants(ctx context.Context, userID uint, conversationIDs []uint) ([]models.ConversationParticipant, error) {
	var rows []models.ConversationParticipant
	if len(conversationIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ? AND user_id <> ?", conversationIDs, userID).
		Order("conversation_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *PostgresConversationRepository) IsParticipant(ctx context.Context, conversationID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	return count > 0, err
}

// FindDirect returns the id of a conversation both users take part in, or
// gorm.ErrRecordNotFound.
func (r *PostgresConversationRepository) FindDirect(ctx context.Context, userA, userB uint) (uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("conversation_participants AS a").
		Joins("JOIN conversation_participants AS b ON a.conversation_id = b.conversation_id").
		Where("a.user_id = ? AND b.user_id = ?", userA, userB).
		Order("a.conversation_id ASC").
		Limit(1).
		Pluck("a.conversation_id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return ids[0], nil
}

// CreateConversation inserts the conversation and its participants together.
func (r *PostgresConversationRepository) CreateConversation(ctx context.Context, userIDs []uint) (*models.Conversation, error) {
	if len(userIDs) == 0 {
		return nil, errors.New("conversation needs participants")
	}
	var conv models.Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}
		participants := make([]models.ConversationParticipant, 0, len(userIDs))
		for _, id := range userIDs {
			participants = append(participants, models.ConversationParticipant{ConversationID: conv.ID, UserID: id})
		}
		return tx.Create(&participants).Error
	})
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// LatestMessage returns nil, nil for an empty conversation.
func (r *PostgresConversationRepository) LatestMessage(ctx context.Context, conversationID uint) (*models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&msgs).Error
	if err != nil || len(msgs) == 0 {
		return nil, err
	}
	return &msgs[0], nil
}

func (r *PostgresConversationRepository) GetMessages(ctx context.Context, conversationID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *PostgresConversationRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *PostgresConversationRepository) Touch(ctx context.Context, conversationID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		UpdateColumn("updated_at", at).Error
}
