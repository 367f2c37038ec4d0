//go:generate mockgen -destination=mock_contract_test.go -package=${GOPACKAGE} -source=contract.go
package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
)

type DBRepo interface {
	GetUserMemberships(ctx context.Context, userID string) (*model.ConversationMemberList, error)
	GetConversations(ctx context.Context, conversationIDs []string) (*model.ConversationList, error)
	GetConversationMembers(ctx context.Context, conversationIDs []string) (*model.ConversationMemberList, error)
	GetUsers(ctx context.Context, userIDs []string) (*model.UserInfoList, error)
	GetAcceptedFriendIDs(ctx context.Context, userID string) ([]string, error)
	GetMessagePreviews(ctx context.Context, conversationIDs []string) ([]model.MessagePreview, error)

	GetConversationMessages(ctx context.Context, conversationID string) (*model.MessageList, error)
	GetReactions(ctx context.Context, messageIDs []string) (*model.MessageReactionList, error)
	GetAttachments(ctx context.Context, messageIDs []string) (*model.MessageAttachmentList, error)
	GetReadReceipts(ctx context.Context, messageIDs []string) (*model.ReadReceiptList, error)
	GetTypingIndicators(ctx context.Context, conversationID string) (*model.TypingIndicatorList, error)

	GetMessage(ctx context.Context, messageID string) (*model.Message, error)
	SaveMessage(ctx context.Context, message *model.Message) error
	EditMessage(ctx context.Context, messageID, content string, at time.Time) error
	TombstoneMessage(ctx context.Context, messageID string, at time.Time) error
	AddReaction(ctx context.Context, reaction *model.MessageReaction) error
	RemoveReaction(ctx context.Context, reaction *model.MessageReaction) error
	AddAttachment(ctx context.Context, attachment *model.MessageAttachment) error
	SaveReadReceipt(ctx context.Context, receipt *model.ReadReceipt) error
	MarkReceiptRead(ctx context.Context, messageID, userID string, at time.Time) error
	AdvanceLastReadAt(ctx context.Context, conversationID, userID string, at time.Time) error
	TouchConversation(ctx context.Context, conversationID string, at time.Time) error

	CreateConversation(ctx context.Context, conversationType string, name, description *string, createdBy string) (string, error)
	AddConversationMembers(ctx context.Context, conversationID string, members []model.ConversationMember) error
	UpdateConversation(ctx context.Context, conversationID string, update model.ConversationUpdate) error
	DeleteMembership(ctx context.Context, conversationID, userID string) error
	FindDirectConversation(ctx context.Context, userID, otherUserID string) (uuid.UUID, error)
	IsConversationMember(ctx context.Context, conversationID, userID string) (bool, error)

	UpsertTypingIndicator(ctx context.Context, conversationID, userID string, at time.Time) error
	DeleteTypingIndicator(ctx context.Context, conversationID, userID string) error

	WithTx(ctx context.Context, cb func(ctx context.Context) error) error
}

type ObjectStorage interface {
	CreateSignedURL(ctx context.Context, path string) (string, error)
}
