package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/repos/testutil"
	"github.com/skrblv/bilimGO/internal/types"
)

func newCourseService(t *testing.T) (CourseService, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	courseRepo := repos.NewCourseRepo(db, log)
	lessonRepo := repos.NewLessonRepo(db, log)
	taskRepo := repos.NewTaskRepo(db, log)
	return NewCourseService(db, log, courseRepo, lessonRepo, taskRepo), db
}

func TestListPublishedFiltersDrafts(t *testing.T) {
	service, db := newCourseService(t)
	ctx := context.Background()

	published := testutil.SeedCourse(t, ctx, db, true)
	testutil.SeedCourse(t, ctx, db, false)

	courses, err := service.ListPublished(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(courses) != 1 || courses[0].ID != published.ID {
		t.Fatalf("expected only the published course, got %+v", courses)
	}
}

func TestGetDetailBuildsSkillTree(t *testing.T) {
	service, db := newCourseService(t)
	ctx := context.Background()

	course := testutil.SeedCourse(t, ctx, db, true)
	rootB := testutil.SeedSkill(t, ctx, db, course.ID, nil, 1)
	rootA := testutil.SeedSkill(t, ctx, db, course.ID, nil, 0)
	child := testutil.SeedSkill(t, ctx, db, course.ID, &rootA.ID, 0)

	lesson := testutil.SeedLesson(t, ctx, db, child.ID, 10)
	testutil.SeedTask(t, ctx, db, lesson.ID, types.TaskTypeTextInput, "x")
	testutil.SeedTask(t, ctx, db, lesson.ID, types.TaskTypeTrueFalse, "true")

	detail, err := service.GetDetail(ctx, course.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if len(detail.Skills) != 2 {
		t.Fatalf("expected 2 root skills, got %d", len(detail.Skills))
	}
	if detail.Skills[0].ID != rootA.ID || detail.Skills[1].ID != rootB.ID {
		t.Fatalf("root skills must come back in position order")
	}
	roots := detail.Skills[0]
	if len(roots.Children) != 1 || roots.Children[0].ID != child.ID {
		t.Fatalf("child skill must nest under its parent")
	}
	lessons := roots.Children[0].Lessons
	if len(lessons) != 1 || len(lessons[0].Tasks) != 2 {
		t.Fatalf("expected one lesson with two tasks, got %+v", lessons)
	}
}

func TestGetDetailDraftIsHidden(t *testing.T) {
	service, db := newCourseService(t)
	ctx := context.Background()

	draft := testutil.SeedCourse(t, ctx, db, false)
	if _, err := service.GetDetail(ctx, draft.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("draft courses must not be visible, got %v", err)
	}
}
