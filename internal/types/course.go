package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	ImageURL    string    `gorm:"column:image_url" json:"image_url"`
	IsPublished bool      `gorm:"not null;default:false;column:is_published" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "course"
}

// Skill is a node in a course's skill tree. Root skills have a nil parent.
type Skill struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID  `gorm:"type:uuid;index;not null;column:course_id" json:"course_id"`
	Title    string     `gorm:"not null;column:title" json:"title"`
	ParentID *uuid.UUID `gorm:"type:uuid;index;column:parent_id" json:"parent_id"`
	Position int        `gorm:"not null;default:0;column:position" json:"position"`
}

func (Skill) TableName() string {
	return "skill"
}

type Lesson struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SkillID       uuid.UUID      `gorm:"type:uuid;index;not null;column:skill_id" json:"skill_id"`
	Title         string         `gorm:"not null;column:title" json:"title"`
	TheoryContent datatypes.JSON `gorm:"column:theory_content" json:"theory_content"`
	XPReward      int            `gorm:"not null;default:10;column:xp_reward" json:"xp_reward"`
	Position      int            `gorm:"not null;default:0;column:position" json:"position"`
}

func (Lesson) TableName() string {
	return "lesson"
}
