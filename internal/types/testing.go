package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionBank struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID      uuid.UUID      `gorm:"type:uuid;index;not null;column:course_id" json:"course_id"`
	TaskType      string         `gorm:"not null;column:task_type" json:"task_type"`
	Question      string         `gorm:"not null;column:question" json:"question"`
	Options       datatypes.JSON `gorm:"column:options" json:"options"`
	CorrectAnswer string         `gorm:"not null;column:correct_answer" json:"-"`
	CodeTemplate  string         `gorm:"column:code_template" json:"code_template,omitempty"`
	Difficulty    int            `gorm:"not null;default:1;column:difficulty" json:"-"`
}

func (QuestionBank) TableName() string {
	return "question_bank"
}

type CertificationTest struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:course_id" json:"course_id"`
	Title             string    `gorm:"not null;column:title" json:"title"`
	Description       string    `gorm:"column:description" json:"description"`
	NumberOfQuestions int       `gorm:"not null;default:100;column:number_of_questions" json:"number_of_questions"`
	// PassingScore is the pass threshold in percent.
	PassingScore int `gorm:"not null;default:80;column:passing_score" json:"passing_score"`
}

func (CertificationTest) TableName() string {
	return "certification_test"
}

type UserTestAttempt struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	TestID      uuid.UUID      `gorm:"type:uuid;not null;column:test_id" json:"test_id"`
	StartTime   time.Time      `gorm:"not null;column:start_time" json:"start_time"`
	EndTime     *time.Time     `gorm:"column:end_time" json:"end_time"`
	Score       *int           `gorm:"column:score" json:"score"`
	IsPassed    bool           `gorm:"not null;default:false;column:is_passed" json:"is_passed"`
	SessionData datatypes.JSON `gorm:"column:session_data" json:"-"`
}

func (UserTestAttempt) TableName() string {
	return "user_test_attempt"
}
