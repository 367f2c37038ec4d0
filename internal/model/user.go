package model

import (
	"time"

	"github.com/google/uuid"
)

const AcceptedFriendshipStatus = "accepted"

type UserInfoList []UserInfo

type UserInfo struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Nickname  string    `db:"nickname" json:"nickname"`
	FullName  string    `db:"full_name" json:"full_name"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
}

// UserUpdateParams is the payload of a user-profile event consumed from the
// databus; it refreshes the local users table.
type UserUpdateParams struct {
	UserID    string `json:"user_uuid"`
	Nickname  string `json:"nickname"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_link"`
}

type Friendship struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	FriendID  uuid.UUID `db:"friend_id" json:"friend_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
