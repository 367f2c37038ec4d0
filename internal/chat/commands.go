package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
	"github.com/s21platform/messenger-service/internal/pkg/tx"
)

// SendMessage inserts the message row together with its attachments and the
// sender's own read receipt, bumps the conversation's last-activity
// timestamp and clears the sender's typing indicator, all in one
// transaction. Propagation to other clients happens through the change
// notification feed, not here.
func (s *Service) SendMessage(ctx context.Context, conversationID, senderID string, content string, messageType string, replyToID *uuid.UUID, attachments []model.MessageAttachment) (*model.Message, error) {
	convID, err := uuid.Parse(conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse conversation id: %v", err)
	}
	sender, err := uuid.Parse(senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sender id: %v", err)
	}

	var message model.Message

	err = tx.TxExecute(ctx, func(ctx context.Context) error {
		isMember, err := s.repository.IsConversationMember(ctx, conversationID, senderID)
		if err != nil {
			return fmt.Errorf("failed to check conversation membership: %v", err)
		}
		if !isMember {
			return ErrNotMember
		}

		now := s.now()
		message = model.Message{
			ID:             uuid.New(),
			ConversationID: convID,
			SenderID:       sender,
			Content:        &content,
			Type:           messageType,
			ReplyToID:      replyToID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := s.repository.SaveMessage(ctx, &message); err != nil {
			return fmt.Errorf("failed to save message: %v", err)
		}

		for i := range attachments {
			attachments[i].ID = uuid.New()
			attachments[i].MessageID = message.ID
			if err := s.repository.AddAttachment(ctx, &attachments[i]); err != nil {
				return fmt.Errorf("failed to save attachment: %v", err)
			}
		}

		readAt := now
		receipt := model.ReadReceipt{
			MessageID: message.ID,
			UserID:    message.SenderID,
			ReadAt:    &readAt,
		}
		if err := s.repository.SaveReadReceipt(ctx, &receipt); err != nil {
			return fmt.Errorf("failed to save read receipt: %v", err)
		}

		if err := s.repository.TouchConversation(ctx, conversationID, now); err != nil {
			return fmt.Errorf("failed to touch conversation: %v", err)
		}

		// sending implies the sender stopped typing
		if err := s.repository.DeleteTypingIndicator(ctx, conversationID, senderID); err != nil {
			return fmt.Errorf("failed to clear typing indicator: %v", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// EditMessage replaces the content of the caller's own message. Editing a
// tombstoned message is rejected with ErrMessageDeleted; a tombstone is
// final.
func (s *Service) EditMessage(ctx context.Context, messageID, editorID, content string) error {
	if _, err := uuid.Parse(messageID); err != nil {
		return ErrMessageNotFound
	}

	message, err := s.repository.GetMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to fetch message: %v", err)
	}
	if message == nil {
		return ErrMessageNotFound
	}
	if message.IsDeleted {
		return ErrMessageDeleted
	}
	if message.SenderID.String() != editorID {
		return ErrNotSender
	}

	if err := s.repository.EditMessage(ctx, messageID, content, s.now()); err != nil {
		return fmt.Errorf("failed to edit message: %v", err)
	}

	return nil
}

// DeleteMessage tombstones the caller's own message: content is cleared,
// the row stays. A second delete of the same message is a no-op.
func (s *Service) DeleteMessage(ctx context.Context, messageID, requesterID string) error {
	if _, err := uuid.Parse(messageID); err != nil {
		return ErrMessageNotFound
	}

	message, err := s.repository.GetMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to fetch message: %v", err)
	}
	if message == nil {
		return ErrMessageNotFound
	}
	if message.IsDeleted {
		return nil
	}
	if message.SenderID.String() != requesterID {
		return ErrNotSender
	}

	if err := s.repository.TombstoneMessage(ctx, messageID, s.now()); err != nil {
		return fmt.Errorf("failed to delete message: %v", err)
	}

	return nil
}

// AddReaction is idempotent per (message, user, emoji); reacting to a
// tombstoned message is rejected with ErrMessageDeleted.
func (s *Service) AddReaction(ctx context.Context, messageID, userID, emoji string) error {
	if _, err := uuid.Parse(messageID); err != nil {
		return ErrMessageNotFound
	}
	reactorID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("failed to parse user id: %v", err)
	}

	message, err := s.repository.GetMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to fetch message: %v", err)
	}
	if message == nil {
		return ErrMessageNotFound
	}
	if message.IsDeleted {
		return ErrMessageDeleted
	}

	reaction := model.MessageReaction{
		MessageID: message.ID,
		UserID:    reactorID,
		Emoji:     emoji,
	}
	if err := s.repository.AddReaction(ctx, &reaction); err != nil {
		return fmt.Errorf("failed to add reaction: %v", err)
	}

	return nil
}

func (s *Service) RemoveReaction(ctx context.Context, messageID, userID, emoji string) error {
	msgID, err := uuid.Parse(messageID)
	if err != nil {
		return ErrMessageNotFound
	}
	reactorID, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("failed to parse user id: %v", err)
	}

	reaction := model.MessageReaction{
		MessageID: msgID,
		UserID:    reactorID,
		Emoji:     emoji,
	}
	if err := s.repository.RemoveReaction(ctx, &reaction); err != nil {
		return fmt.Errorf("failed to remove reaction: %v", err)
	}

	return nil
}

// MarkMessageAsRead upserts the caller's receipt; read_at is set once and
// never moves backwards.
func (s *Service) MarkMessageAsRead(ctx context.Context, messageID, userID string) error {
	if _, err := uuid.Parse(messageID); err != nil {
		return ErrMessageNotFound
	}

	if err := s.repository.MarkReceiptRead(ctx, messageID, userID, s.now()); err != nil {
		return fmt.Errorf("failed to mark message as read: %v", err)
	}

	return nil
}

// MarkConversationAsRead advances the member's read cursor to now, which
// immediately zeroes the unread count computed by the directory builder.
func (s *Service) MarkConversationAsRead(ctx context.Context, conversationID, userID string) error {
	if err := s.repository.AdvanceLastReadAt(ctx, conversationID, userID, s.now()); err != nil {
		return fmt.Errorf("failed to mark conversation as read: %v", err)
	}

	return nil
}

// CreateDirectConversation returns the existing direct conversation between
// the pair when there is one, so the same pair can never hold two direct
// threads.
func (s *Service) CreateDirectConversation(ctx context.Context, userID, otherUserID string) (string, error) {
	if userID == otherUserID {
		return "", ErrSelfConversation
	}

	creator, err := uuid.Parse(userID)
	if err != nil {
		return "", fmt.Errorf("failed to parse user id: %v", err)
	}
	other, err := uuid.Parse(otherUserID)
	if err != nil {
		return "", fmt.Errorf("failed to parse user id: %v", err)
	}

	var conversationID string
	err = tx.TxExecute(ctx, func(ctx context.Context) error {
		existing, err := s.repository.FindDirectConversation(ctx, userID, otherUserID)
		if err != nil {
			return fmt.Errorf("failed to look up direct conversation: %v", err)
		}
		if existing != uuid.Nil {
			conversationID = existing.String()
			return nil
		}

		conversationID, err = s.repository.CreateConversation(ctx, model.DirectConversationType, nil, nil, userID)
		if err != nil {
			return fmt.Errorf("failed to create conversation: %v", err)
		}

		members := []model.ConversationMember{
			{UserID: creator, Role: model.AdminMemberRole},
			{UserID: other, Role: model.RegularMemberRole},
		}
		if err := s.repository.AddConversationMembers(ctx, conversationID, members); err != nil {
			return fmt.Errorf("failed to add conversation members: %v", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return conversationID, nil
}

// CreateGroupConversation creates the conversation row and the full member
// batch in one transaction, so a failed member insert can never leave a
// half-populated group behind.
func (s *Service) CreateGroupConversation(ctx context.Context, creatorID, name string, description *string, memberIDs []string) (string, error) {
	creator, err := uuid.Parse(creatorID)
	if err != nil {
		return "", fmt.Errorf("failed to parse user id: %v", err)
	}

	members := []model.ConversationMember{
		{UserID: creator, Role: model.AdminMemberRole},
	}
	for _, memberID := range memberIDs {
		if memberID == creatorID {
			continue
		}
		id, err := uuid.Parse(memberID)
		if err != nil {
			return "", fmt.Errorf("failed to parse member id: %v", err)
		}
		members = append(members, model.ConversationMember{
			UserID: id,
			Role:   model.RegularMemberRole,
		})
	}

	var conversationID string
	err = tx.TxExecute(ctx, func(ctx context.Context) error {
		var err error
		conversationID, err = s.repository.CreateConversation(ctx, model.GroupConversationType, &name, description, creatorID)
		if err != nil {
			return fmt.Errorf("failed to create conversation: %v", err)
		}

		if err := s.repository.AddConversationMembers(ctx, conversationID, members); err != nil {
			return fmt.Errorf("failed to add conversation members: %v", err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return conversationID, nil
}

func (s *Service) UpdateConversation(ctx context.Context, conversationID, userID string, update model.ConversationUpdate) error {
	isMember, err := s.repository.IsConversationMember(ctx, conversationID, userID)
	if err != nil {
		return fmt.Errorf("failed to check conversation membership: %v", err)
	}
	if !isMember {
		return ErrNotMember
	}

	if err := s.repository.UpdateConversation(ctx, conversationID, update); err != nil {
		return fmt.Errorf("failed to update conversation: %v", err)
	}

	return nil
}

// LeaveConversation removes only the caller's membership row; the
// conversation and its history stay.
func (s *Service) LeaveConversation(ctx context.Context, conversationID, userID string) error {
	if err := s.repository.DeleteMembership(ctx, conversationID, userID); err != nil {
		return fmt.Errorf("failed to leave conversation: %v", err)
	}

	return nil
}

func (s *Service) StartTyping(ctx context.Context, conversationID, userID string) error {
	if err := s.repository.UpsertTypingIndicator(ctx, conversationID, userID, s.now()); err != nil {
		return fmt.Errorf("failed to start typing: %v", err)
	}

	return nil
}

func (s *Service) StopTyping(ctx context.Context, conversationID, userID string) error {
	if err := s.repository.DeleteTypingIndicator(ctx, conversationID, userID); err != nil {
		return fmt.Errorf("failed to stop typing: %v", err)
	}

	return nil
}
