package rest

import (
	"github.com/s21platform/messenger-service/internal/model"
)

type Error struct {
	Error string `json:"error"`
}

type GetConversationsResponse struct {
	Conversations model.ConversationPreviewList `json:"conversations"`
}

type CreateDirectConversationRequest struct {
	UserID string `json:"user_id"`
}

type CreateGroupConversationRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids"`
}

type CreateConversationResponse struct {
	ID string `json:"id"`
}

type GetMessagesResponse struct {
	Messages    model.MessageViewList `json:"messages"`
	TypingUsers []model.TypingUser    `json:"typing_users"`
}

type AttachmentUpload struct {
	FilePath      string  `json:"file_path"`
	FileName      string  `json:"file_name"`
	FileType      string  `json:"file_type"`
	FileSize      *int64  `json:"file_size,omitempty"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	Duration      *int32  `json:"duration,omitempty"`
	Width         *int32  `json:"width,omitempty"`
	Height        *int32  `json:"height,omitempty"`
}

type SendMessageRequest struct {
	Content     string             `json:"content"`
	MessageType string             `json:"message_type"`
	ReplyToID   *string            `json:"reply_to_id,omitempty"`
	Attachments []AttachmentUpload `json:"attachments,omitempty"`
}

type SendMessageResponse struct {
	MessageID string `json:"message_id"`
	SentAt    string `json:"sent_at"`
}

type EditMessageRequest struct {
	Content string `json:"content"`
}

type ReactionRequest struct {
	Emoji string `json:"emoji"`
}

type GetConnectTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type GetSubscribeTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Channel   string `json:"channel"`
}
