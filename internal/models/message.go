package models

import "time"

type Conversation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

type ConversationParticipant struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index;uniqueIndex:idx_conversation_user"`
	UserID         uint      `json:"user_id" gorm:"index;uniqueIndex:idx_conversation_user"`
	JoinedAt       time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index"`
	SenderID       uint      `json:"sender_id" gorm:"index"`
	Content        string    `json:"content"`
	SharedPostID   *string   `json:"shared_post_id" gorm:"size:24"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}

type GroupRole string

const (
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

type GroupChat struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100"`
	Description string    `json:"description"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedBy   uint      `json:"created_by" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`
}

type GroupChatMember struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	GroupChatID uint      `json:"group_chat_id" gorm:"index;uniqueIndex:idx_group_user"`
	UserID      uint      `json:"user_id" gorm:"index;uniqueIndex:idx_group_user"`
	Role        GroupRole `json:"role" gorm:"size:10;default:member"`
	JoinedAt    time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

type GroupChatMessage struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	GroupChatID  uint      `json:"group_chat_id" gorm:"index"`
	SenderID     uint      `json:"sender_id" gorm:"index"`
	Content      string    `json:"content"`
	SharedPostID *string   `json:"shared_post_id" gorm:"size:24"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

// MessageView is a direct message with its sender and the post it shares.
type MessageView struct {
	Message
	Profile    *Profile  `json:"profile,omitempty"`
	SharedPost *PostView `json:"shared_post,omitempty"`
}

type GroupMessageView struct {
	GroupChatMessage
	Profile    *Profile  `json:"profile,omitempty"`
	SharedPost *PostView `json:"shared_post,omitempty"`
}

type ConversationView struct {
	Conversation
	Participants []Profile    `json:"participants"`
	LastMessage  *MessageView `json:"last_message,omitempty"`
	UnreadCount  int          `json:"unread_count"`
}

type GroupChatView struct {
	GroupChat
	Members     []Profile         `json:"members"`
	MemberCount int               `json:"member_count"`
	LastMessage *GroupMessageView `json:"last_message,omitempty"`
}

// ShareTarget is a conversation a post can be shared into, labelled by the
// other participant.
type ShareTarget struct {
	ConversationID uint    `json:"conversation_id"`
	Participant    Profile `json:"participant"`
}

type SendMessageRequest struct {
	Content      string  `json:"content" validate:"required,min=1,max=5000"`
	SharedPostID *string `json:"shared_post_id,omitempty"`
}

type StartConversationRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}

type CreateGroupChatRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	MemberIDs   []uint `json:"member_ids"`
}

type SharePostRequest struct {
	ConversationID uint `json:"conversation_id" validate:"required"`
}

type AddGroupMemberRequest struct {
	UserID uint `json:"user_id" validate:"required"`
}
