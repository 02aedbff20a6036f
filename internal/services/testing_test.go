package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/repos/testutil"
	"github.com/skrblv/bilimGO/internal/types"
)

type testingFixture struct {
	db      *gorm.DB
	service TestingService
	user    *types.User
	course  *types.Course
	answers map[uuid.UUID]string
}

func newTestingFixture(t *testing.T, bankSize, numberOfQuestions, passingScore int) *testingFixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, db, "candidate")
	course := testutil.SeedCourse(t, ctx, db, true)
	testutil.SeedCertificationTest(t, ctx, db, course.ID, numberOfQuestions, passingScore)

	answers := make(map[uuid.UUID]string, bankSize)
	for i := 0; i < bankSize; i++ {
		answer := fmt.Sprintf("answer-%d", i)
		q := testutil.SeedQuestion(t, ctx, db, course.ID, types.TaskTypeTextInput, answer)
		answers[q.ID] = answer
	}

	testRepo := repos.NewCertificationTestRepo(db, log)
	questionRepo := repos.NewQuestionBankRepo(db, log)
	attemptRepo := repos.NewTestAttemptRepo(db, log)
	service := NewTestingService(db, log, testRepo, questionRepo, attemptRepo)
	return &testingFixture{db: db, service: service, user: user, course: course, answers: answers}
}

func TestGetTestForCourse(t *testing.T) {
	f := newTestingFixture(t, 10, 10, 85)

	info, err := f.service.GetTestForCourse(context.Background(), f.course.ID)
	if err != nil {
		t.Fatalf("get test: %v", err)
	}
	if info.NumberOfQuestions != 10 || info.PassingScore != 85 {
		t.Fatalf("unexpected test info: %+v", info)
	}
	if info.RequiredCorrectAnswers != 9 {
		t.Fatalf("85%% of 10 questions must require 9 correct, got %d", info.RequiredCorrectAnswers)
	}
}

func TestStartSessionSamplesFromBank(t *testing.T) {
	f := newTestingFixture(t, 20, 5, 80)

	session, err := f.service.StartSession(context.Background(), f.user.ID, f.course.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if len(session.Questions) != 5 {
		t.Fatalf("expected 5 drawn questions, got %d", len(session.Questions))
	}
	seen := make(map[uuid.UUID]bool)
	for _, q := range session.Questions {
		if seen[q.ID] {
			t.Fatalf("question %s drawn twice", q.ID)
		}
		seen[q.ID] = true
		if _, ok := f.answers[q.ID]; !ok {
			t.Fatalf("drawn question %s is not from the course bank", q.ID)
		}
	}
}

func TestStartSessionBankTooSmall(t *testing.T) {
	f := newTestingFixture(t, 3, 5, 80)

	if _, err := f.service.StartSession(context.Background(), f.user.ID, f.course.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for an undersized bank, got %v", err)
	}
}

func TestSubmitSessionScoring(t *testing.T) {
	f := newTestingFixture(t, 10, 10, 80)
	ctx := context.Background()

	session, err := f.service.StartSession(ctx, f.user.ID, f.course.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	// answer 8 of 10 correctly, leave one wrong and one blank
	submitted := make(map[uuid.UUID]string, len(session.Questions))
	for i, q := range session.Questions {
		switch {
		case i == 0:
			submitted[q.ID] = "wrong"
		case i == 1:
			// unanswered
		default:
			submitted[q.ID] = f.answers[q.ID]
		}
	}

	result, err := f.service.SubmitSession(ctx, f.user.ID, session.AttemptID, submitted)
	if err != nil {
		t.Fatalf("submit session: %v", err)
	}
	if result.CorrectAnswers != 8 || result.TotalQuestions != 10 {
		t.Fatalf("expected 8/10, got %d/%d", result.CorrectAnswers, result.TotalQuestions)
	}
	if result.Score != 80 {
		t.Fatalf("expected score 80, got %d", result.Score)
	}
	if !result.IsPassed {
		t.Fatalf("80 must pass an 80%% threshold")
	}

	// an attempt can be submitted only once
	if _, err := f.service.SubmitSession(ctx, f.user.ID, session.AttemptID, submitted); !errors.Is(err, ErrConflict) {
		t.Fatalf("resubmission must be rejected, got %v", err)
	}
}

func TestSubmitSessionGradesEveryTypeAsText(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, db, "candidate")
	course := testutil.SeedCourse(t, ctx, db, true)
	testutil.SeedCertificationTest(t, ctx, db, course.ID, 3, 100)

	code := testutil.SeedQuestion(t, ctx, db, course.ID, types.TaskTypeCode, "x = 1")
	choice := testutil.SeedQuestion(t, ctx, db, course.ID, types.TaskTypeMultipleChoice, "Paris")
	boolean := testutil.SeedQuestion(t, ctx, db, course.ID, types.TaskTypeTrueFalse, "true")

	service := NewTestingService(db, log,
		repos.NewCertificationTestRepo(db, log),
		repos.NewQuestionBankRepo(db, log),
		repos.NewTestAttemptRepo(db, log))

	session, err := service.StartSession(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	// bank grading is plain text comparison, even for code questions:
	// case and surrounding whitespace must not matter
	submitted := map[uuid.UUID]string{
		code.ID:    "X = 1",
		choice.ID:  "  paris ",
		boolean.ID: "TRUE",
	}
	result, err := service.SubmitSession(ctx, user.ID, session.AttemptID, submitted)
	if err != nil {
		t.Fatalf("submit session: %v", err)
	}
	if result.CorrectAnswers != 3 {
		t.Fatalf("expected 3/3 correct, got %d/%d", result.CorrectAnswers, result.TotalQuestions)
	}
	if result.Score != 100 || !result.IsPassed {
		t.Fatalf("expected a passing 100, got %+v", result)
	}
}

func TestSubmitSessionFailsBelowThreshold(t *testing.T) {
	f := newTestingFixture(t, 10, 10, 80)
	ctx := context.Background()

	session, err := f.service.StartSession(ctx, f.user.ID, f.course.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	submitted := map[uuid.UUID]string{
		session.Questions[0].ID: f.answers[session.Questions[0].ID],
	}
	result, err := f.service.SubmitSession(ctx, f.user.ID, session.AttemptID, submitted)
	if err != nil {
		t.Fatalf("submit session: %v", err)
	}
	if result.Score != 10 || result.IsPassed {
		t.Fatalf("1/10 must score 10 and fail, got %+v", result)
	}
}

func TestSubmitSessionWrongUser(t *testing.T) {
	f := newTestingFixture(t, 10, 10, 80)
	ctx := context.Background()

	session, err := f.service.StartSession(ctx, f.user.ID, f.course.ID)
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	stranger := testutil.SeedUser(t, ctx, f.db, "stranger")
	if _, err := f.service.SubmitSession(ctx, stranger.ID, session.AttemptID, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("another user's attempt must look like it does not exist, got %v", err)
	}
}
