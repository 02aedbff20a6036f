package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/repos/testutil"
	"github.com/skrblv/bilimGO/internal/types"
)

type taskFixture struct {
	db      *gorm.DB
	service TaskService
	user    *types.User
	lesson  *types.Lesson
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, db, "learner")
	course := testutil.SeedCourse(t, ctx, db, true)
	skill := testutil.SeedSkill(t, ctx, db, course.ID, nil, 0)
	lesson := testutil.SeedLesson(t, ctx, db, skill.ID, 10)

	taskRepo := repos.NewTaskRepo(db, log)
	userRepo := repos.NewUserRepo(db, log)
	service := NewTaskService(db, log, taskRepo, userRepo)
	return &taskFixture{db: db, service: service, user: user, lesson: lesson}
}

func (f *taskFixture) userXP(t *testing.T) int {
	t.Helper()
	var user types.User
	if err := f.db.Where("id = ?", f.user.ID).First(&user).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user.XP
}

func TestCheckAnswerTextTask(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	task := testutil.SeedTask(t, ctx, f.db, f.lesson.ID, types.TaskTypeTextInput, "Answer")

	verdict, err := f.service.CheckAnswer(ctx, task.ID, " answer ")
	if err != nil {
		t.Fatalf("check answer: %v", err)
	}
	if !verdict.IsCorrect {
		t.Fatalf("expected correct verdict")
	}
}

func TestCheckAnswerSpeedTypingRejected(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	task := testutil.SeedTask(t, ctx, f.db, f.lesson.ID, types.TaskTypeSpeedTyping, "")

	_, err := f.service.CheckAnswer(ctx, task.ID, "whatever")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for speed_typing, got %v", err)
	}
}

func TestCheckAnswerUnknownTask(t *testing.T) {
	f := newTaskFixture(t)
	if _, err := f.service.CheckAnswer(context.Background(), uuid.New(), "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRequestHintDeductsXPWithFloor(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	task := testutil.SeedTask(t, ctx, f.db, f.lesson.ID, types.TaskTypeTextInput, "Answer")
	testutil.SeedHint(t, ctx, f.db, task.ID, "first hint", 3, 0)
	testutil.SeedHint(t, ctx, f.db, task.ID, "second hint", 5, 1)

	if err := f.db.Model(&types.User{}).Where("id = ?", f.user.ID).Update("xp", 5).Error; err != nil {
		t.Fatalf("set xp: %v", err)
	}

	result, err := f.service.RequestHint(ctx, f.user.ID, task.ID)
	if err != nil {
		t.Fatalf("request hint: %v", err)
	}
	if result.Hint != "first hint" {
		t.Fatalf("expected the first hint by position, got %q", result.Hint)
	}
	if result.XPPenalty != 3 {
		t.Fatalf("expected penalty 3, got %d", result.XPPenalty)
	}
	if got := f.userXP(t); got != 2 {
		t.Fatalf("expected xp 2 after penalty, got %d", got)
	}

	// asking again charges again, clamped at zero
	if _, err := f.service.RequestHint(ctx, f.user.ID, task.ID); err != nil {
		t.Fatalf("second hint request: %v", err)
	}
	if got := f.userXP(t); got != 0 {
		t.Fatalf("xp must clamp at zero, got %d", got)
	}
}

func TestRequestHintNoHint(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	task := testutil.SeedTask(t, ctx, f.db, f.lesson.ID, types.TaskTypeTextInput, "Answer")

	if _, err := f.service.RequestHint(ctx, f.user.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when the task has no hint, got %v", err)
	}
	if got := f.userXP(t); got != 0 {
		t.Fatalf("failed hint request must not charge xp, got %d", got)
	}
}
