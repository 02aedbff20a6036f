package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	BadgeCodeFirstLesson = "FIRST_LESSON"
	BadgeCodeStreak5Days = "STREAK_5_DAYS"
	BadgeCodeLessons10   = "LESSONS_10"
)

type Badge struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Code        string    `gorm:"uniqueIndex;not null;column:code" json:"code"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`
}

func (Badge) TableName() string {
	return "badge"
}

// UserBadge rows are immutable once created; a badge is awarded at most
// once per user, enforced by the (user, badge) unique constraint.
type UserBadge struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge;column:user_id" json:"user_id"`
	BadgeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge;column:badge_id" json:"badge_id"`
	AwardedAt time.Time `gorm:"not null;column:awarded_at" json:"awarded_at"`

	Badge *Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badge"
}
