package model

const (
	InsertOp = "INSERT"
	UpdateOp = "UPDATE"
	DeleteOp = "DELETE"

	MessagesTable      = "messages"
	ReactionsTable     = "message_reactions"
	AttachmentsTable   = "message_attachments"
	ReadReceiptsTable  = "message_read_receipts"
	TypingTable        = "typing_indicators"
	ConversationsTable = "conversations"
	MembersTable       = "conversation_members"
	FriendshipsTable   = "friendships"
)

// ChangeEvent is the routing envelope raised by the notify triggers. Only
// enough to address the affected aggregate; consumers re-fetch the aggregate
// instead of trusting any row payload.
type ChangeEvent struct {
	Table          string `json:"table"`
	Op             string `json:"op"`
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
}
