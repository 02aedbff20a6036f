package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	FriendshipStatusPending  = "PENDING"
	FriendshipStatusAccepted = "ACCEPTED"
	FriendshipStatusDeclined = "DECLINED"
)

type Friendship struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FromUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friendship_pair;column:from_user_id" json:"-"`
	ToUserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_friendship_pair;column:to_user_id" json:"-"`
	Status     string    `gorm:"not null;default:PENDING;column:status" json:"status"`
	CreatedAt  time.Time `json:"created_at"`

	FromUser *User `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUser   *User `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
}

func (Friendship) TableName() string {
	return "friendship"
}
