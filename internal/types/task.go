package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	TaskTypeMultipleChoice = "multiple_choice"
	TaskTypeTrueFalse      = "true_false"
	TaskTypeTextInput      = "text_input"
	TaskTypeCode           = "code"
	TaskTypeFillInBlank    = "fill_in_blank"
	TaskTypeConstructor    = "constructor"
	TaskTypeSpeedTyping    = "speed_typing"
)

type Task struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID      uuid.UUID      `gorm:"type:uuid;index;not null;column:lesson_id" json:"lesson_id"`
	TaskType      string         `gorm:"not null;column:task_type" json:"task_type"`
	Question      string         `gorm:"not null;column:question" json:"question"`
	Options       datatypes.JSON `gorm:"column:options" json:"options"`
	CorrectAnswer string         `gorm:"not null;column:correct_answer" json:"correct_answer"`
	CodeTemplate  string         `gorm:"column:code_template" json:"code_template,omitempty"`
	// TimeLimit applies to speed_typing tasks only; timing is measured by
	// the client, there is no server-side scoring rule for this type.
	TimeLimit *int `gorm:"column:time_limit" json:"time_limit,omitempty"`

	Hints []Hint `gorm:"foreignKey:TaskID" json:"hints,omitempty"`
}

func (Task) TableName() string {
	return "task"
}

type Hint struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID `gorm:"type:uuid;index;not null;column:task_id" json:"task_id"`
	Text      string    `gorm:"not null;column:text" json:"text"`
	XPPenalty int       `gorm:"not null;default:1;column:xp_penalty" json:"xp_penalty"`
	Position  int       `gorm:"not null;default:0;column:position" json:"position"`
}

func (Hint) TableName() string {
	return "hint"
}
