package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username         string     `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email            string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password         string     `gorm:"not null;column:password" json:"-"`
	AvatarURL        string     `gorm:"column:avatar_url" json:"avatar"`
	XP               int        `gorm:"not null;default:0;column:xp" json:"xp"`
	Streak           int        `gorm:"not null;default:0;column:streak" json:"streak"`
	LastActivityDate *time.Time `gorm:"type:date;column:last_activity_date" json:"last_activity_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
