package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/types"
)

type ChallengeService interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Challenge, error)
	Send(ctx context.Context, senderID, receiverID, lessonID uuid.UUID) (*types.Challenge, error)
	Accept(ctx context.Context, userID, challengeID uuid.UUID) (*types.Challenge, error)
	Decline(ctx context.Context, userID, challengeID uuid.UUID) (*types.Challenge, error)
	SubmitResult(ctx context.Context, userID, challengeID uuid.UUID, timeTaken int) (*types.Challenge, error)
}

type challengeService struct {
	db            *gorm.DB
	log           *logger.Logger
	challengeRepo repos.ChallengeRepo
	lessonRepo    repos.LessonRepo
	userRepo      repos.UserRepo
}

func NewChallengeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	challengeRepo repos.ChallengeRepo,
	lessonRepo repos.LessonRepo,
	userRepo repos.UserRepo,
) ChallengeService {
	serviceLog := baseLog.With("service", "ChallengeService")
	return &challengeService{
		db:            db,
		log:           serviceLog,
		challengeRepo: challengeRepo,
		lessonRepo:    lessonRepo,
		userRepo:      userRepo,
	}
}

func (cs *challengeService) ListMine(ctx context.Context, userID uuid.UUID) ([]*types.Challenge, error) {
	return cs.challengeRepo.ListForUser(ctx, nil, userID)
}

func (cs *challengeService) Send(ctx context.Context, senderID, receiverID, lessonID uuid.UUID) (*types.Challenge, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: cannot challenge yourself", ErrInvalidInput)
	}
	if _, err := cs.userRepo.GetByID(ctx, nil, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: opponent not found", ErrNotFound)
		}
		return nil, err
	}
	if _, err := cs.lessonRepo.GetByID(ctx, nil, lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lesson not found", ErrNotFound)
		}
		return nil, err
	}

	challenge := &types.Challenge{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		LessonID:   lessonID,
		Status:     types.ChallengeStatusPending,
	}
	if err := cs.challengeRepo.Create(ctx, nil, challenge); err != nil {
		return nil, err
	}
	cs.log.Info("challenge sent", "sender", senderID, "receiver", receiverID, "lesson", lessonID)
	return cs.challengeRepo.GetByID(ctx, nil, challenge.ID)
}

func (cs *challengeService) Accept(ctx context.Context, userID, challengeID uuid.UUID) (*types.Challenge, error) {
	return cs.answerInvite(ctx, userID, challengeID, types.ChallengeStatusAccepted)
}

func (cs *challengeService) Decline(ctx context.Context, userID, challengeID uuid.UUID) (*types.Challenge, error) {
	return cs.answerInvite(ctx, userID, challengeID, types.ChallengeStatusDeclined)
}

func (cs *challengeService) answerInvite(ctx context.Context, userID, challengeID uuid.UUID, status string) (*types.Challenge, error) {
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		challenge, err := cs.challengeRepo.GetForUpdate(ctx, tx, challengeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if challenge.ReceiverID != userID {
			return fmt.Errorf("%w: only the invited player can respond", ErrForbidden)
		}
		if challenge.Status != types.ChallengeStatusPending {
			return fmt.Errorf("%w: challenge is not pending", ErrConflict)
		}
		challenge.Status = status
		return cs.challengeRepo.Save(ctx, tx, challenge)
	})
	if err != nil {
		return nil, err
	}
	return cs.challengeRepo.GetByID(ctx, nil, challengeID)
}

// SubmitResult records one participant's elapsed time. The first
// submission moves the challenge to IN_PROGRESS; once both times are in,
// the strictly smaller one wins and the challenge completes. Equal times
// complete with no winner.
func (cs *challengeService) SubmitResult(ctx context.Context, userID, challengeID uuid.UUID, timeTaken int) (*types.Challenge, error) {
	if timeTaken < 0 {
		return nil, fmt.Errorf("%w: time_taken must be non-negative", ErrInvalidInput)
	}

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		challenge, err := cs.challengeRepo.GetForUpdate(ctx, tx, challengeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if challenge.SenderID != userID && challenge.ReceiverID != userID {
			return fmt.Errorf("%w: not a participant", ErrForbidden)
		}
		if challenge.Status != types.ChallengeStatusAccepted && challenge.Status != types.ChallengeStatusInProgress {
			return fmt.Errorf("%w: challenge does not accept results in status %s", ErrConflict, challenge.Status)
		}

		if challenge.SenderID == userID {
			if challenge.SenderTime != nil {
				return fmt.Errorf("%w: result already submitted", ErrConflict)
			}
			challenge.SenderTime = &timeTaken
		} else {
			if challenge.ReceiverTime != nil {
				return fmt.Errorf("%w: result already submitted", ErrConflict)
			}
			challenge.ReceiverTime = &timeTaken
		}

		if challenge.SenderTime != nil && challenge.ReceiverTime != nil {
			challenge.Status = types.ChallengeStatusCompleted
			switch {
			case *challenge.SenderTime < *challenge.ReceiverTime:
				challenge.WinnerID = &challenge.SenderID
			case *challenge.ReceiverTime < *challenge.SenderTime:
				challenge.WinnerID = &challenge.ReceiverID
			}
		} else {
			challenge.Status = types.ChallengeStatusInProgress
		}

		return cs.challengeRepo.Save(ctx, tx, challenge)
	})
	if err != nil {
		return nil, err
	}
	return cs.challengeRepo.GetByID(ctx, nil, challengeID)
}
