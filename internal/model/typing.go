package model

import (
	"time"

	"github.com/google/uuid"
)

// TypingHorizon is the reader-side staleness bound: an indicator row older
// than this is treated as absent even when its writer never deleted it.
const TypingHorizon = 5 * time.Second

type TypingIndicatorList []TypingIndicator

type TypingIndicator struct {
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	StartedAt      time.Time `db:"started_at" json:"started_at"`
}

type TypingUser struct {
	TypingIndicator
	User *UserInfo `json:"user,omitempty"`
}
