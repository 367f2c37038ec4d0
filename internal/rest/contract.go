//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package rest

import (
	"context"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
)

type ChatService interface {
	ListConversations(ctx context.Context, userID string) (model.ConversationPreviewList, error)
	LoadMessages(ctx context.Context, conversationID string) (model.MessageViewList, error)
	ListTypingUsers(ctx context.Context, conversationID, userID string) ([]model.TypingUser, error)
	IsMember(ctx context.Context, conversationID, userID string) (bool, error)

	SendMessage(ctx context.Context, conversationID, senderID string, content string, messageType string, replyToID *uuid.UUID, attachments []model.MessageAttachment) (*model.Message, error)
	EditMessage(ctx context.Context, messageID, editorID, content string) error
	DeleteMessage(ctx context.Context, messageID, requesterID string) error
	AddReaction(ctx context.Context, messageID, userID, emoji string) error
	RemoveReaction(ctx context.Context, messageID, userID, emoji string) error
	MarkMessageAsRead(ctx context.Context, messageID, userID string) error
	MarkConversationAsRead(ctx context.Context, conversationID, userID string) error

	CreateDirectConversation(ctx context.Context, userID, otherUserID string) (string, error)
	CreateGroupConversation(ctx context.Context, creatorID, name string, description *string, memberIDs []string) (string, error)
	UpdateConversation(ctx context.Context, conversationID, userID string, update model.ConversationUpdate) error
	LeaveConversation(ctx context.Context, conversationID, userID string) error

	StartTyping(ctx context.Context, conversationID, userID string) error
	StopTyping(ctx context.Context, conversationID, userID string) error
}

type Validator interface {
	ValidateSendMessage(req *SendMessageRequest) error
	ValidateCreateDirect(req *CreateDirectConversationRequest, creatorID string) error
	ValidateCreateGroup(req *CreateGroupConversationRequest, creatorID string) error
	ValidateReaction(req *ReactionRequest) error
}

type JWTGenerator interface {
	GenerateConnectToken(userID string) (string, int64, error)
	GenerateSubscribeToken(userID, conversationID string) (string, int64, error)
	ValidateConnectToken(tokenString string) (*model.CentrifugoConnectClaims, error)
	ValidateSubscribeToken(tokenString string) (*model.CentrifugoSubscribeClaims, error)
}
