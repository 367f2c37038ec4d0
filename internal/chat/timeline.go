package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/s21platform/messenger-service/internal/model"
)

// LoadMessages returns the enriched timeline of a conversation, ascending by
// creation time. Reactions, attachments and read receipts are fetched in
// three concurrent batches keyed by the message-id set; identities are
// resolved once for the de-duplicated sender and reactor set. A failure in
// any fetch aborts the whole load.
func (s *Service) LoadMessages(ctx context.Context, conversationID string) (model.MessageViewList, error) {
	if conversationID == "" {
		return model.MessageViewList{}, nil
	}

	messages, err := s.repository.GetConversationMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %v", err)
	}

	if len(*messages) == 0 {
		return model.MessageViewList{}, nil
	}

	messageIDs := make([]string, 0, len(*messages))
	for _, message := range *messages {
		messageIDs = append(messageIDs, message.ID.String())
	}

	var (
		reactions   *model.MessageReactionList
		attachments *model.MessageAttachmentList
		receipts    *model.ReadReceiptList
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reactions, err = s.repository.GetReactions(gCtx, messageIDs)
		return err
	})
	g.Go(func() error {
		var err error
		attachments, err = s.repository.GetAttachments(gCtx, messageIDs)
		return err
	})
	g.Go(func() error {
		var err error
		receipts, err = s.repository.GetReadReceipts(gCtx, messageIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load messages: %v", err)
	}

	userIDs := make([]string, 0, len(*messages))
	seenUsers := make(map[uuid.UUID]struct{})
	collect := func(id uuid.UUID) {
		if _, ok := seenUsers[id]; !ok {
			seenUsers[id] = struct{}{}
			userIDs = append(userIDs, id.String())
		}
	}
	for _, message := range *messages {
		collect(message.SenderID)
	}
	for _, reaction := range *reactions {
		collect(reaction.UserID)
	}

	users, err := s.repository.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %v", err)
	}

	usersByID := make(map[uuid.UUID]model.UserInfo, len(*users))
	for _, user := range *users {
		usersByID[user.ID] = user
	}

	reactionsByMessage := make(map[uuid.UUID][]model.ReactionView)
	for _, reaction := range *reactions {
		view := model.ReactionView{MessageReaction: reaction}
		if user, ok := usersByID[reaction.UserID]; ok {
			u := user
			view.User = &u
		}
		reactionsByMessage[reaction.MessageID] = append(reactionsByMessage[reaction.MessageID], view)
	}

	attachmentsByMessage := make(map[uuid.UUID][]model.AttachmentView)
	for _, attachment := range *attachments {
		view := model.AttachmentView{MessageAttachment: attachment}
		// a failed sign leaves the URL empty; the renderer shows a
		// placeholder instead of surfacing an error
		if url, err := s.storage.CreateSignedURL(ctx, attachment.FilePath); err == nil {
			view.URL = url
		}
		if attachment.ThumbnailPath != nil {
			if url, err := s.storage.CreateSignedURL(ctx, *attachment.ThumbnailPath); err == nil {
				view.ThumbnailURL = url
			}
		}
		attachmentsByMessage[attachment.MessageID] = append(attachmentsByMessage[attachment.MessageID], view)
	}

	receiptsByMessage := make(map[uuid.UUID][]model.ReadReceipt)
	for _, receipt := range *receipts {
		receiptsByMessage[receipt.MessageID] = append(receiptsByMessage[receipt.MessageID], receipt)
	}

	views := make(model.MessageViewList, 0, len(*messages))
	for _, message := range *messages {
		view := model.MessageView{
			Message:     message,
			Reactions:   reactionsByMessage[message.ID],
			Attachments: attachmentsByMessage[message.ID],
			Receipts:    receiptsByMessage[message.ID],
		}
		if sender, ok := usersByID[message.SenderID]; ok {
			u := sender
			view.Sender = &u
		}
		views = append(views, view)
	}

	return views, nil
}

// ListTypingUsers returns who is currently typing in the conversation,
// excluding the caller. Rows older than the typing horizon count as absent
// even if their writer never cleaned up.
func (s *Service) ListTypingUsers(ctx context.Context, conversationID, userID string) ([]model.TypingUser, error) {
	indicators, err := s.repository.GetTypingIndicators(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load typing indicators: %v", err)
	}

	fresh := make([]model.TypingIndicator, 0, len(*indicators))
	userIDs := make([]string, 0, len(*indicators))
	horizon := s.now().Add(-model.TypingHorizon)
	for _, indicator := range *indicators {
		if indicator.UserID.String() == userID || indicator.StartedAt.Before(horizon) {
			continue
		}
		fresh = append(fresh, indicator)
		userIDs = append(userIDs, indicator.UserID.String())
	}

	if len(fresh) == 0 {
		return []model.TypingUser{}, nil
	}

	users, err := s.repository.GetUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load typing indicators: %v", err)
	}

	usersByID := make(map[uuid.UUID]model.UserInfo, len(*users))
	for _, user := range *users {
		usersByID[user.ID] = user
	}

	typingUsers := make([]model.TypingUser, 0, len(fresh))
	for _, indicator := range fresh {
		typingUser := model.TypingUser{TypingIndicator: indicator}
		if user, ok := usersByID[indicator.UserID]; ok {
			u := user
			typingUser.User = &u
		}
		typingUsers = append(typingUsers, typingUser)
	}

	return typingUsers, nil
}
