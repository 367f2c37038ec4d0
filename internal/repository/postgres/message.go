package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/s21platform/messenger-service/internal/model"
)

var messageColumns = []string{
	"id",
	"conversation_id",
	"sender_id",
	"content",
	"type",
	"is_edited",
	"edited_at",
	"is_deleted",
	"deleted_at",
	"reply_to_id",
	"created_at",
	"updated_at",
}

// GetConversationMessages returns the visible timeline, ascending by
// creation time. Tombstoned rows are excluded.
func (r *Repository) GetConversationMessages(ctx context.Context, conversationID string) (*model.MessageList, error) {
	query, args, err := sq.Select(messageColumns...).
		From("messages").
		Where(sq.Eq{"conversation_id": conversationID}).
		Where(sq.Eq{"is_deleted": false}).
		OrderBy("created_at ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var messages model.MessageList
	err = r.Chk(ctx).SelectContext(ctx, &messages, query, args...)
	if err != nil {
		return nil, err
	}

	return &messages, nil
}

func (r *Repository) GetMessage(ctx context.Context, messageID string) (*model.Message, error) {
	query, args, err := sq.Select(messageColumns...).
		From("messages").
		Where(sq.Eq{"id": messageID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var message model.Message
	err = r.Chk(ctx).GetContext(ctx, &message, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &message, nil
}

func (r *Repository) SaveMessage(ctx context.Context, message *model.Message) error {
	query := sq.Insert("messages").
		Columns("id", "conversation_id", "sender_id", "content", "type", "reply_to_id").
		Values(message.ID, message.ConversationID, message.SenderID, message.Content, message.Type, message.ReplyToID).
		PlaceholderFormat(sq.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to save message: %v", err)
	}

	return nil
}

func (r *Repository) EditMessage(ctx context.Context, messageID, content string, at time.Time) error {
	query, args, err := sq.Update("messages").
		Set("content", content).
		Set("is_edited", true).
		Set("edited_at", at).
		Set("updated_at", at).
		Where(sq.Eq{
			"id":         messageID,
			"is_deleted": false,
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

// TombstoneMessage clears content and marks the row deleted; the row itself
// stays addressable for reactions and receipts. Re-tombstoning is a no-op.
func (r *Repository) TombstoneMessage(ctx context.Context, messageID string, at time.Time) error {
	query, args, err := sq.Update("messages").
		Set("content", nil).
		Set("is_deleted", true).
		Set("deleted_at", at).
		Set("updated_at", at).
		Where(sq.Eq{
			"id":         messageID,
			"is_deleted": false,
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

// GetMessagePreviews returns sender/timestamp/content tuples for every
// visible message across the conversation set, newest first. The directory
// builder derives both last-message previews and unread counts from it.
func (r *Repository) GetMessagePreviews(ctx context.Context, conversationIDs []string) ([]model.MessagePreview, error) {
	query, args, err := sq.Select(
		"conversation_id",
		"sender_id",
		"content",
		"type",
		"created_at",
	).
		From("messages").
		Where(sq.Eq{"conversation_id": conversationIDs}).
		Where(sq.Eq{"is_deleted": false}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var previews []model.MessagePreview
	err = r.Chk(ctx).SelectContext(ctx, &previews, query, args...)
	if err != nil {
		return nil, err
	}

	return previews, nil
}

func (r *Repository) AddReaction(ctx context.Context, reaction *model.MessageReaction) error {
	query, args, err := sq.Insert("message_reactions").
		Columns("message_id", "user_id", "emoji").
		Values(reaction.MessageID, reaction.UserID, reaction.Emoji).
		Suffix("ON CONFLICT (message_id, user_id, emoji) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) RemoveReaction(ctx context.Context, reaction *model.MessageReaction) error {
	query, args, err := sq.Delete("message_reactions").
		Where(sq.Eq{
			"message_id": reaction.MessageID,
			"user_id":    reaction.UserID,
			"emoji":      reaction.Emoji,
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) GetReactions(ctx context.Context, messageIDs []string) (*model.MessageReactionList, error) {
	query, args, err := sq.Select("message_id", "user_id", "emoji", "created_at").
		From("message_reactions").
		Where(sq.Eq{"message_id": messageIDs}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var reactions model.MessageReactionList
	err = r.Chk(ctx).SelectContext(ctx, &reactions, query, args...)
	if err != nil {
		return nil, err
	}

	return &reactions, nil
}

func (r *Repository) AddAttachment(ctx context.Context, attachment *model.MessageAttachment) error {
	query, args, err := sq.Insert("message_attachments").
		Columns("id", "message_id", "file_path", "file_name", "file_type", "file_size", "thumbnail_path", "duration", "width", "height").
		Values(
			attachment.ID,
			attachment.MessageID,
			attachment.FilePath,
			attachment.FileName,
			attachment.FileType,
			attachment.FileSize,
			attachment.ThumbnailPath,
			attachment.Duration,
			attachment.Width,
			attachment.Height,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) GetAttachments(ctx context.Context, messageIDs []string) (*model.MessageAttachmentList, error) {
	query, args, err := sq.Select(
		"id",
		"message_id",
		"file_path",
		"file_name",
		"file_type",
		"file_size",
		"thumbnail_path",
		"duration",
		"width",
		"height",
		"created_at",
	).
		From("message_attachments").
		Where(sq.Eq{"message_id": messageIDs}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var attachments model.MessageAttachmentList
	err = r.Chk(ctx).SelectContext(ctx, &attachments, query, args...)
	if err != nil {
		return nil, err
	}

	return &attachments, nil
}

func (r *Repository) SaveReadReceipt(ctx context.Context, receipt *model.ReadReceipt) error {
	query, args, err := sq.Insert("message_read_receipts").
		Columns("message_id", "user_id", "read_at").
		Values(receipt.MessageID, receipt.UserID, receipt.ReadAt).
		Suffix("ON CONFLICT (message_id, user_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

// MarkReceiptRead upserts the caller's receipt and sets read_at exactly
// once; a second mark keeps the original read timestamp.
func (r *Repository) MarkReceiptRead(ctx context.Context, messageID, userID string, at time.Time) error {
	query, args, err := sq.Insert("message_read_receipts").
		Columns("message_id", "user_id", "read_at").
		Values(messageID, userID, at).
		Suffix("ON CONFLICT (message_id, user_id) DO UPDATE SET read_at = COALESCE(message_read_receipts.read_at, EXCLUDED.read_at)").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) GetReadReceipts(ctx context.Context, messageIDs []string) (*model.ReadReceiptList, error) {
	query, args, err := sq.Select("message_id", "user_id", "delivered_at", "read_at").
		From("message_read_receipts").
		Where(sq.Eq{"message_id": messageIDs}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var receipts model.ReadReceiptList
	err = r.Chk(ctx).SelectContext(ctx, &receipts, query, args...)
	if err != nil {
		return nil, err
	}

	return &receipts, nil
}
