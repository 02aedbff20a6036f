package types

import (
	"time"

	"github.com/google/uuid"
)

// UserProgress records that a user completed a lesson at least once. The
// (user, lesson) unique constraint is the mechanism that prevents double
// credit under concurrent duplicate completion requests.
type UserProgress struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson;column:user_id" json:"user_id"`
	LessonID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson;column:lesson_id" json:"lesson_id"`
	CompletedAt time.Time `gorm:"not null;column:completed_at" json:"completed_at"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
