package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/s21platform/messenger-service/internal/model"
)

func (r *Repository) GetUsers(ctx context.Context, userIDs []string) (*model.UserInfoList, error) {
	query, args, err := sq.Select("id", "nickname", "full_name", "avatar_url").
		From("users").
		Where(sq.Eq{"id": userIDs}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var users model.UserInfoList
	err = r.Chk(ctx).SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, err
	}

	return &users, nil
}

func (r *Repository) UpsertUser(ctx context.Context, user *model.UserInfo) error {
	query, args, err := sq.Insert("users").
		Columns("id", "nickname", "full_name", "avatar_url").
		Values(user.ID, user.Nickname, user.FullName, user.AvatarURL).
		Suffix("ON CONFLICT (id) DO UPDATE SET nickname = EXCLUDED.nickname, full_name = EXCLUDED.full_name, avatar_url = EXCLUDED.avatar_url, updated_at = now()").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build sql query: %v", err)
	}

	_, err = r.Chk(ctx).ExecContext(ctx, query, args...)
	return err
}

// GetAcceptedFriendIDs returns both directions of the friendship edge set
// collapsed onto the counterpart id.
func (r *Repository) GetAcceptedFriendIDs(ctx context.Context, userID string) ([]string, error) {
	query, args, err := sq.Select().
		Column(sq.Expr("CASE WHEN user_id = ? THEN friend_id ELSE user_id END", userID)).
		From("friendships").
		Where(sq.And{
			sq.Or{
				sq.Eq{"user_id": userID},
				sq.Eq{"friend_id": userID},
			},
			sq.Eq{"status": model.AcceptedFriendshipStatus},
		}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build sql query: %v", err)
	}

	var friendIDs []string
	err = r.Chk(ctx).SelectContext(ctx, &friendIDs, query, args...)
	if err != nil {
		return nil, err
	}

	return friendIDs, nil
}
