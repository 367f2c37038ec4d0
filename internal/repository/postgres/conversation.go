package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/s21platform/messenger-service/internal/model"
)

func (r *Repository) GetUserMemberships(ctx context.Context, userID string) (*model.ConversationMemberList, error) {
	query, args, err := sq.Select(
		"conversation_id",
		"user_id",
		"role",
		"joined_at",
		"last_read_at",
		"is_muted",
		"is_pinned",
	).
		From("conversation_members").
		Where(sq.Eq{"user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var memberships model.ConversationMemberList
	err = r.Chk(ctx).SelectContext(ctx, &memberships, query, args...)
	if err != nil {
		return nil, err
	}

	return &memberships, nil
}

func (r *Repository) GetConversations(ctx context.Context, conversationIDs []string) (*model.ConversationList, error) {
	query, args, err := sq.Select(
		"id",
		"type",
		"name",
		"description",
		"avatar_url",
		"created_by",
		"created_at",
		"updated_at",
		"last_message_at",
		"is_archived",
	).
		From("conversations").
		Where(sq.Eq{"id": conversationIDs}).
		OrderBy("last_message_at DESC NULLS LAST").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var conversations model.ConversationList
	err = r.Chk(ctx).SelectContext(ctx, &conversations, query, args...)
	if err != nil {
		return nil, err
	}

	return &conversations, nil
}

// GetConversationMembers fetches member rows for the whole id set in one
// round-trip; grouping per conversation happens in the directory builder.
func (r *Repository) GetConversationMembers(ctx context.Context, conversationIDs []string) (*model.ConversationMemberList, error) {
	query, args, err := sq.Select(
		"conversation_id",
		"user_id",
		"role",
		"joined_at",
		"last_read_at",
		"is_muted",
		"is_pinned",
	).
		From("conversation_members").
		Where(sq.Eq{"conversation_id": conversationIDs}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var members model.ConversationMemberList
	err = r.Chk(ctx).SelectContext(ctx, &members, query, args...)
	if err != nil {
		return nil, err
	}

	return &members, nil
}

func (r *Repository) CreateConversation(ctx context.Context, conversationType string, name, description *string, createdBy string) (string, error) {
	query, args, err := sq.Insert("conversations").
		Columns("type", "name", "description", "created_by").
		Values(conversationType, name, description, createdBy).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build sql query: %v", err)
	}

	var conversationID string
	err = r.Chk(ctx).GetContext(ctx, &conversationID, query, args...)
	if err != nil {
		return "", err
	}

	return conversationID, nil
}

func (r *Repository) AddConversationMembers(ctx context.Context, conversationID string, members []model.ConversationMember) error {
	if len(members) == 0 {
		return nil
	}

	query := sq.Insert("conversation_members").
		Columns("conversation_id", "user_id", "role").
		Suffix("ON CONFLICT (conversation_id, user_id) DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	for _, member := range members {
		query = query.Values(conversationID, member.UserID, member.Role)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, sql, args...)
	return err
}

func (r *Repository) UpdateConversation(ctx context.Context, conversationID string, update model.ConversationUpdate) error {
	queryBuilder := sq.Update("conversations").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": conversationID})

	if update.Name != nil {
		queryBuilder = queryBuilder.Set("name", *update.Name)
	}
	if update.Description != nil {
		queryBuilder = queryBuilder.Set("description", *update.Description)
	}
	if update.AvatarURL != nil {
		queryBuilder = queryBuilder.Set("avatar_url", *update.AvatarURL)
	}
	if update.IsArchived != nil {
		queryBuilder = queryBuilder.Set("is_archived", *update.IsArchived)
	}

	query, args, err := queryBuilder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) TouchConversation(ctx context.Context, conversationID string, at time.Time) error {
	query, args, err := sq.Update("conversations").
		Set("last_message_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": conversationID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) DeleteMembership(ctx context.Context, conversationID, userID string) error {
	query, args, err := sq.Delete("conversation_members").
		Where(sq.Eq{
			"conversation_id": conversationID,
			"user_id":         userID,
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

// AdvanceLastReadAt moves the member's read cursor forward only; an older
// timestamp never wins.
func (r *Repository) AdvanceLastReadAt(ctx context.Context, conversationID, userID string, at time.Time) error {
	query, args, err := sq.Update("conversation_members").
		Set("last_read_at", at).
		Where(sq.Eq{
			"conversation_id": conversationID,
			"user_id":         userID,
		}).
		Where(sq.Or{
			sq.Eq{"last_read_at": nil},
			sq.Lt{"last_read_at": at},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) IsConversationMember(ctx context.Context, conversationID, userID string) (bool, error) {
	query, args, err := sq.
		Select("COUNT(*) > 0").
		From("conversation_members").
		Where(sq.And{
			sq.Eq{"conversation_id": conversationID},
			sq.Eq{"user_id": userID},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build sql query: %v", err)
	}

	var isMember bool
	err = r.Chk(ctx).GetContext(ctx, &isMember, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check conversation membership: %v", err)
	}

	return isMember, nil
}

// FindDirectConversation returns the id of the existing direct conversation
// between the two users, or uuid.Nil when none exists.
func (r *Repository) FindDirectConversation(ctx context.Context, userID, otherUserID string) (uuid.UUID, error) {
	query, args, err := sq.Select("c.id").
		From("conversations c").
		Join("conversation_members m1 ON c.id = m1.conversation_id").
		Join("conversation_members m2 ON c.id = m2.conversation_id").
		Where(sq.And{
			sq.Eq{"c.type": model.DirectConversationType},
			sq.Eq{"m1.user_id": userID},
			sq.Eq{"m2.user_id": otherUserID},
		}).
		Limit(1).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var conversationID uuid.UUID
	err = r.Chk(ctx).GetContext(ctx, &conversationID, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}

	return conversationID, nil
}
