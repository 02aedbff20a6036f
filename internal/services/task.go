package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/evaluator"
	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/types"
)

type TaskService interface {
	CheckAnswer(ctx context.Context, taskID uuid.UUID, answer string) (*evaluator.Verdict, error)
	RequestHint(ctx context.Context, userID, taskID uuid.UUID) (*HintResult, error)
}

type HintResult struct {
	Hint      string      `json:"hint"`
	XPPenalty int         `json:"xp_penalty"`
	User      *types.User `json:"user"`
}

type taskService struct {
	db       *gorm.DB
	log      *logger.Logger
	taskRepo repos.TaskRepo
	userRepo repos.UserRepo
}

func NewTaskService(
	db *gorm.DB,
	baseLog *logger.Logger,
	taskRepo repos.TaskRepo,
	userRepo repos.UserRepo,
) TaskService {
	serviceLog := baseLog.With("service", "TaskService")
	return &taskService{
		db:       db,
		log:      serviceLog,
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

func (ts *taskService) CheckAnswer(ctx context.Context, taskID uuid.UUID, answer string) (*evaluator.Verdict, error) {
	task, err := ts.taskRepo.GetByID(ctx, nil, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	verdict, err := evaluator.Evaluate(ctx, task.TaskType, task.CorrectAnswer, answer)
	if err != nil {
		if errors.Is(err, evaluator.ErrUnsupportedTaskType) {
			return nil, fmt.Errorf("%w: %s tasks are scored client-side", ErrInvalidInput, task.TaskType)
		}
		return nil, err
	}
	return &verdict, nil
}

// RequestHint returns the task's hint and charges its XP penalty. Asking
// again charges again; XP never drops below zero.
func (ts *taskService) RequestHint(ctx context.Context, userID, taskID uuid.UUID) (*HintResult, error) {
	hint, err := ts.taskRepo.FirstHint(ctx, nil, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no hint for this task", ErrNotFound)
		}
		return nil, err
	}

	var user *types.User
	err = ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ts.userRepo.DeductXP(ctx, tx, userID, hint.XPPenalty); err != nil {
			return err
		}
		var getErr error
		user, getErr = ts.userRepo.GetByID(ctx, tx, userID)
		return getErr
	})
	if err != nil {
		return nil, err
	}

	ts.log.Info("hint issued", "user_id", userID, "task_id", taskID, "penalty", hint.XPPenalty)
	return &HintResult{
		Hint:      hint.Text,
		XPPenalty: hint.XPPenalty,
		User:      user,
	}, nil
}
