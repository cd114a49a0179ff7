package repositories

import (
	"context"
	"time"

	"github.com/anonto42/linkup/backend/internal/models"
	"gorm.io/gorm"
)

// GroupChatRepository covers N-party group chats and their messages
type GroupChatRepository interface {
	GroupIDsForUser(ctx context.Context, userID uint) ([]uint, error)
	GetGroupsByIDs(ctx context.Context, ids []uint) ([]models.GroupChat, error)
	GetGroupByID(ctx context.Context, id uint) (*models.GroupChat, error)
	Members(ctx context.Context, groupID uint) ([]models.GroupChatMember, error)
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	CreateGroup(ctx context.Context, group *models.GroupChat, members []models.GroupChatMember) error
	AddMember(ctx context.Context, member *models.GroupChatMember) error
	LatestMessage(ctx context.Context, groupID uint) (*models.GroupChatMessage, error)
	GetMessages(ctx context.Context, groupID uint) ([]models.GroupChatMessage, error)
	CreateMessage(ctx context.Context, msg *models.GroupChatMessage) error
	Touch(ctx context.Context, groupID uint, at time.Time) error
}

type PostgresGroupChatRepository struct {
	db *gorm.DB
}

func NewPostgresGroupChatRepository(db *gorm.DB) *PostgresGroupChatRepository {
	return &PostgresGroupChatRepository{db: db}
}

func (r *PostgresGroupChatRepository) GroupIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.GroupChatMember{}).
		Where("user_id = ?", userID).
		Pluck("group_chat_id", &ids).Error
	return ids, err
}

func (r *PostgresGroupChatRepository) GetGroupsByIDs(ctx context.Context, ids []uint) ([]models.GroupChat, error) {
	var groups []models.GroupChat
	if len(ids) == 0 {
		return groups, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).
		Order("updated_at DESC, id DESC").
		Find(&groups).Error
	return groups, err
}

func (r *PostgresGroupChatRepository) GetGroupByID(ctx context.Context, id uint) (*models.GroupChat, error) {
	var group models.GroupChat
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *PostgresGroupChatRepository) Members(ctx context.Context, groupID uint) ([]models.GroupChatMember, error) {
	var members []models.GroupChatMember
	err := r.db.WithContext(ctx).Where("group_chat_id = ?", groupID).
		Order("id ASC").
		Find(&members).Error
	return members, err
}

func (r *PostgresGroupChatRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GroupChatMember{}).
		Where("group_chat_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateGroup inserts the group and its member rows in one transaction.
// GroupChatID on the members is filled in here.
func (r *PostgresGroupChatRepository) CreateGroup(ctx context.Context, group *models.GroupChat, members []models.GroupChatMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		for i := range members {
			members[i].GroupChatID = group.ID
		}
		return tx.Create(&members).Error
	})
}

func (r *PostgresGroupChatRepository) AddMember(ctx context.Context, member *models.GroupChatMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresGroupChatRepository) LatestMessage(ctx context.Context, groupID uint) (*models.GroupChatMessage, error) {
	var msgs []models.GroupChatMessage
	err := r.db.WithContext(ctx).Where("group_chat_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&msgs).Error
	if err != nil || len(msgs) == 0 {
		return nil, err
	}
	return &msgs[0], nil
}

func (r *PostgresGroupChatRepository) GetMessages(ctx context.Context, groupID uint) ([]models.GroupChatMessage, error) {
	var msgs []models.GroupChatMessage
	err := r.db.WithContext(ctx).Where("group_chat_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *PostgresGroupChatRepository) CreateMessage(ctx context.Context, msg *models.GroupChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *PostgresGroupChatRepository) Touch(ctx context.Context, groupID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.GroupChat{}).
		Where("id = ?", groupID).
		UpdateColumn("updated_at", at).Error
}
