package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/s21platform/messenger-service/internal/model"
)

func (r *Repository) UpsertTypingIndicator(ctx context.Context, conversationID, userID string, at time.Time) error {
	query, args, err := sq.Insert("typing_indicators").
		Columns("conversation_id", "user_id", "started_at").
		Values(conversationID, userID, at).
		Suffix("ON CONFLICT (conversation_id, user_id) DO UPDATE SET started_at = EXCLUDED.started_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *Repository) DeleteTypingIndicator(ctx context.Context, conversationID, userID string) error {
	query, args, err := sq.Delete("typing_indicators").
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

// GetTypingIndicators returns every indicator row for the conversation;
// the reader applies the staleness horizon itself.
func (r *Repository) GetTypingIndicators(ctx context.Context, conversationID string) (*model.TypingIndicatorList, error) {
	query, args, err := sq.Select("conversation_id", "user_id", "started_at").
		From("typing_indicators").
		Where(sq.Eq{"conversation_id": conversationID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var indicators model.TypingIndicatorList
	err = r.Chk(ctx).SelectContext(ctx, &indicators, query, args...)
	if err != nil {
		return nil, err
	}

	return &indicators, nil
}
