package chat

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotMember        = errors.New("user is not a member of the conversation")
	ErrNotSender        = errors.New("user is not the sender of the message")
	ErrMessageNotFound  = errors.New("message not found")
	ErrMessageDeleted   = errors.New("message is deleted")
	ErrSelfConversation = errors.New("direct conversation with oneself is not allowed")
)

// Service owns the conversation directory, the message timeline and the
// command layer. All state lives in the row store; the service itself keeps
// nothing between calls.
type Service struct {
	repository DBRepo
	storage    ObjectStorage
	now        func() time.Time
}

func New(repo DBRepo, storage ObjectStorage) *Service {
	return &Service{
		repository: repo,
		storage:    storage,
		now:        time.Now,
	}
}

func (s *Service) IsMember(ctx context.Context, conversationID, userID string) (bool, error) {
	isMember, err := s.repository.IsConversationMember(ctx, conversationID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check conversation membership: %v", err)
	}
	return isMember, nil
}
