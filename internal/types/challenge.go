package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChallengeStatusPending    = "PENDING"
	ChallengeStatusAccepted   = "ACCEPTED"
	ChallengeStatusDeclined   = "DECLINED"
	ChallengeStatusInProgress = "IN_PROGRESS"
	ChallengeStatusCompleted  = "COMPLETED"
)

// Challenge is a head-to-head timed competition between two users on one
// lesson. Times are elapsed seconds; the strictly smaller time wins. Equal
// times complete the challenge with no winner set.
type Challenge struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID     uuid.UUID  `gorm:"type:uuid;index;not null;column:sender_id" json:"sender_id"`
	ReceiverID   uuid.UUID  `gorm:"type:uuid;index;not null;column:receiver_id" json:"receiver_id"`
	LessonID     uuid.UUID  `gorm:"type:uuid;not null;column:lesson_id" json:"lesson_id"`
	Status       string     `gorm:"not null;default:PENDING;column:status" json:"status"`
	SenderTime   *int       `gorm:"column:sender_time" json:"sender_time"`
	ReceiverTime *int       `gorm:"column:receiver_time" json:"receiver_time"`
	WinnerID     *uuid.UUID `gorm:"type:uuid;column:winner_id" json:"winner_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Sender   *User   `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User   `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Lesson   *Lesson `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}

func (Challenge) TableName() string {
	return "challenge"
}
