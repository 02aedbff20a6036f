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

type challengeFixture struct {
	db       *gorm.DB
	service  ChallengeService
	sender   *types.User
	receiver *types.User
	lesson   *types.Lesson
}

func newChallengeFixture(t *testing.T) *challengeFixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	sender := testutil.SeedUser(t, ctx, db, "sender")
	receiver := testutil.SeedUser(t, ctx, db, "receiver")
	course := testutil.SeedCourse(t, ctx, db, true)
	skill := testutil.SeedSkill(t, ctx, db, course.ID, nil, 0)
	lesson := testutil.SeedLesson(t, ctx, db, skill.ID, 10)

	challengeRepo := repos.NewChallengeRepo(db, log)
	lessonRepo := repos.NewLessonRepo(db, log)
	userRepo := repos.NewUserRepo(db, log)
	service := NewChallengeService(db, log, challengeRepo, lessonRepo, userRepo)
	return &challengeFixture{db: db, service: service, sender: sender, receiver: receiver, lesson: lesson}
}

func (f *challengeFixture) accepted(t *testing.T) *types.Challenge {
	t.Helper()
	ctx := context.Background()
	challenge, err := f.service.Send(ctx, f.sender.ID, f.receiver.ID, f.lesson.ID)
	if err != nil {
		t.Fatalf("send challenge: %v", err)
	}
	challenge, err = f.service.Accept(ctx, f.receiver.ID, challenge.ID)
	if err != nil {
		t.Fatalf("accept challenge: %v", err)
	}
	return challenge
}

func TestChallengeLifecycleWinner(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()
	challenge := f.accepted(t)

	if challenge.Status != types.ChallengeStatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", challenge.Status)
	}

	challenge, err := f.service.SubmitResult(ctx, f.sender.ID, challenge.ID, 42)
	if err != nil {
		t.Fatalf("sender result: %v", err)
	}
	if challenge.Status != types.ChallengeStatusInProgress {
		t.Fatalf("first result must move the challenge to IN_PROGRESS, got %s", challenge.Status)
	}
	if challenge.WinnerID != nil {
		t.Fatalf("no winner before both results are in")
	}

	challenge, err = f.service.SubmitResult(ctx, f.receiver.ID, challenge.ID, 30)
	if err != nil {
		t.Fatalf("receiver result: %v", err)
	}
	if challenge.Status != types.ChallengeStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", challenge.Status)
	}
	if challenge.WinnerID == nil || *challenge.WinnerID != f.receiver.ID {
		t.Fatalf("smaller time must win, got winner %v", challenge.WinnerID)
	}
}

func TestChallengeTieHasNoWinner(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()
	challenge := f.accepted(t)

	if _, err := f.service.SubmitResult(ctx, f.sender.ID, challenge.ID, 60); err != nil {
		t.Fatalf("sender result: %v", err)
	}
	challenge, err := f.service.SubmitResult(ctx, f.receiver.ID, challenge.ID, 60)
	if err != nil {
		t.Fatalf("receiver result: %v", err)
	}
	if challenge.Status != types.ChallengeStatusCompleted {
		t.Fatalf("tie must still complete the challenge, got %s", challenge.Status)
	}
	if challenge.WinnerID != nil {
		t.Fatalf("tie must leave the winner unset, got %v", challenge.WinnerID)
	}
}

func TestChallengeDecline(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	challenge, err := f.service.Send(ctx, f.sender.ID, f.receiver.ID, f.lesson.ID)
	if err != nil {
		t.Fatalf("send challenge: %v", err)
	}
	challenge, err = f.service.Decline(ctx, f.receiver.ID, challenge.ID)
	if err != nil {
		t.Fatalf("decline challenge: %v", err)
	}
	if challenge.Status != types.ChallengeStatusDeclined {
		t.Fatalf("expected DECLINED, got %s", challenge.Status)
	}
	if _, err := f.service.SubmitResult(ctx, f.sender.ID, challenge.ID, 10); !errors.Is(err, ErrConflict) {
		t.Fatalf("declined challenges must not accept results, got %v", err)
	}
}

func TestChallengeGuards(t *testing.T) {
	f := newChallengeFixture(t)
	ctx := context.Background()

	if _, err := f.service.Send(ctx, f.sender.ID, f.sender.ID, f.lesson.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self-challenge must be rejected, got %v", err)
	}

	challenge, err := f.service.Send(ctx, f.sender.ID, f.receiver.ID, f.lesson.ID)
	if err != nil {
		t.Fatalf("send challenge: %v", err)
	}

	// only the receiver may respond to the invite
	if _, err := f.service.Accept(ctx, f.sender.ID, challenge.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("sender accepting own invite must be forbidden, got %v", err)
	}

	// results are not accepted while the invite is pending
	if _, err := f.service.SubmitResult(ctx, f.sender.ID, challenge.ID, 10); !errors.Is(err, ErrConflict) {
		t.Fatalf("pending challenges must not accept results, got %v", err)
	}

	outsider := testutil.SeedUser(t, ctx, f.db, "outsider")
	if _, err := f.service.Accept(ctx, f.receiver.ID, challenge.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := f.service.SubmitResult(ctx, outsider.ID, challenge.ID, 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-participants must not submit results, got %v", err)
	}
	if _, err := f.service.SubmitResult(ctx, f.sender.ID, challenge.ID, -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative times must be rejected, got %v", err)
	}
	if _, err := f.service.SubmitResult(ctx, f.sender.ID, challenge.ID, 10); err != nil {
		t.Fatalf("sender result: %v", err)
	}
	if _, err := f.service.SubmitResult(ctx, f.sender.ID, challenge.ID, 8); !errors.Is(err, ErrConflict) {
		t.Fatalf("double submission must be rejected, got %v", err)
	}
}
