package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DirectConversationType = "direct"
	GroupConversationType  = "group"

	AdminMemberRole   = "admin"
	RegularMemberRole = "member"
)

type ConversationList []Conversation

type Conversation struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Type          string     `db:"type" json:"type"`
	Name          *string    `db:"name" json:"name,omitempty"`
	Description   *string    `db:"description" json:"description,omitempty"`
	AvatarURL     *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedBy     uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	LastMessageAt *time.Time `db:"last_message_at" json:"last_message_at,omitempty"`
	IsArchived    bool       `db:"is_archived" json:"is_archived"`
}

type ConversationMemberList []ConversationMember

type ConversationMember struct {
	ConversationID uuid.UUID  `db:"conversation_id" json:"conversation_id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Role           string     `db:"role" json:"role"`
	JoinedAt       time.Time  `db:"joined_at" json:"joined_at"`
	LastReadAt     *time.Time `db:"last_read_at" json:"last_read_at,omitempty"`
	IsMuted        bool       `db:"is_muted" json:"is_muted"`
	IsPinned       bool       `db:"is_pinned" json:"is_pinned"`
}

// ConversationUpdate carries the mutable conversation fields; nil means
// "leave unchanged".
type ConversationUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	IsArchived  *bool   `json:"is_archived,omitempty"`
}

type ConversationPreviewList []ConversationPreview

// ConversationPreview is the directory entry assembled for one conversation:
// the row itself plus members with resolved identities, the newest visible
// message, and the caller's unread count.
type ConversationPreview struct {
	Conversation Conversation   `json:"conversation"`
	Members      []MemberInfo   `json:"members"`
	LastMessage  *MessagePreview `json:"last_message,omitempty"`
	UnreadCount  int            `json:"unread_count"`
	IsPinned     bool           `json:"is_pinned"`
	IsMuted      bool           `json:"is_muted"`
	OtherUser    *UserInfo      `json:"other_user,omitempty"`
}

type MemberInfo struct {
	ConversationMember
	User UserInfo `json:"user"`
}

type MessagePreview struct {
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID `db:"sender_id" json:"sender_id"`
	Content        *string   `db:"content" json:"content,omitempty"`
	Type           string    `db:"type" json:"type"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
