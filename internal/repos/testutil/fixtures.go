package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, published bool) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:          uuid.New(),
		Title:       "course",
		IsPublished: published,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, parentID *uuid.UUID, position int) *types.Skill {
	tb.Helper()
	s := &types.Skill{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    "skill",
		ParentID: parentID,
		Position: position,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed skill: %v", err)
	}
	return s
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, skillID uuid.UUID, xpReward int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:       uuid.New(),
		SkillID:  skillID,
		Title:    "lesson",
		XPReward: xpReward,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedTask(tb testing.TB, ctx context.Context, tx *gorm.DB, lessonID uuid.UUID, taskType, correctAnswer string) *types.Task {
	tb.Helper()
	t := &types.Task{
		ID:            uuid.New(),
		LessonID:      lessonID,
		TaskType:      taskType,
		Question:      "q",
		CorrectAnswer: correctAnswer,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return t
}

func SeedHint(tb testing.TB, ctx context.Context, tx *gorm.DB, taskID uuid.UUID, text string, penalty, position int) *types.Hint {
	tb.Helper()
	h := &types.Hint{
		ID:        uuid.New(),
		TaskID:    taskID,
		Text:      text,
		XPPenalty: penalty,
		Position:  position,
	}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed hint: %v", err)
	}
	return h
}

func SeedBadge(tb testing.TB, ctx context.Context, tx *gorm.DB, code string) *types.Badge {
	tb.Helper()
	b := &types.Badge{
		ID:    uuid.New(),
		Title: code,
		Code:  code,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed badge: %v", err)
	}
	return b
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, taskType, correctAnswer string) *types.QuestionBank {
	tb.Helper()
	q := &types.QuestionBank{
		ID:            uuid.New(),
		CourseID:      courseID,
		TaskType:      taskType,
		Question:      "q",
		CorrectAnswer: correctAnswer,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedCertificationTest(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, numberOfQuestions, passingScore int) *types.CertificationTest {
	tb.Helper()
	ct := &types.CertificationTest{
		ID:                uuid.New(),
		CourseID:          courseID,
		Title:             "certification",
		NumberOfQuestions: numberOfQuestions,
		PassingScore:      passingScore,
	}
	if err := tx.WithContext(ctx).Create(ct).Error; err != nil {
		tb.Fatalf("seed certification test: %v", err)
	}
	return ct
}
