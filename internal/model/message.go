package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TextMessageType  = "text"
	ImageMessageType = "image"
	VideoMessageType = "video"
	VoiceMessageType = "voice"
	FileMessageType  = "file"
)

type MessageList []Message

type Message struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ConversationID uuid.UUID  `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID  `db:"sender_id" json:"sender_id"`
	Content        *string    `db:"content" json:"content,omitempty"`
	Type           string     `db:"type" json:"type"`
	IsEdited       bool       `db:"is_edited" json:"is_edited"`
	EditedAt       *time.Time `db:"edited_at" json:"edited_at,omitempty"`
	IsDeleted      bool       `db:"is_deleted" json:"is_deleted"`
	DeletedAt      *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	ReplyToID      *uuid.UUID `db:"reply_to_id" json:"reply_to_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

type MessageReactionList []MessageReaction

type MessageReaction struct {
	MessageID uuid.UUID `db:"message_id" json:"message_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Emoji     string    `db:"emoji" json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type MessageAttachmentList []MessageAttachment

type MessageAttachment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	MessageID     uuid.UUID `db:"message_id" json:"message_id"`
	FilePath      string    `db:"file_path" json:"file_path"`
	FileName      string    `db:"file_name" json:"file_name"`
	FileType      string    `db:"file_type" json:"file_type"`
	FileSize      *int64    `db:"file_size" json:"file_size,omitempty"`
	ThumbnailPath *string   `db:"thumbnail_path" json:"thumbnail_path,omitempty"`
	Duration      *int32    `db:"duration" json:"duration,omitempty"`
	Width         *int32    `db:"width" json:"width,omitempty"`
	Height        *int32    `db:"height" json:"height,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type ReadReceiptList []ReadReceipt

type ReadReceipt struct {
	MessageID   uuid.UUID  `db:"message_id" json:"message_id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	DeliveredAt time.Time  `db:"delivered_at" json:"delivered_at"`
	ReadAt      *time.Time `db:"read_at" json:"read_at,omitempty"`
}

type MessageViewList []MessageView

// MessageView is one timeline entry: the raw row joined with sender
// identity, reactions (each with its author resolved), attachments carrying
// short-lived download URLs, and read receipts.
type MessageView struct {
	Message     Message          `json:"message"`
	Sender      *UserInfo        `json:"sender,omitempty"`
	Reactions   []ReactionView   `json:"reactions"`
	Attachments []AttachmentView `json:"attachments"`
	Receipts    []ReadReceipt    `json:"read_receipts"`
}

type ReactionView struct {
	MessageReaction
	User *UserInfo `json:"user,omitempty"`
}

type AttachmentView struct {
	MessageAttachment
	// URL and ThumbnailURL are signed and expire; they are resolved on
	// every load and must not be persisted.
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}
