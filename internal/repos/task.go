package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/types"
)

type TaskRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) (*types.Task, error)
	ListByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Task, error)
	FirstHint(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) (*types.Hint, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	repoLog := baseLog.With("repo", "TaskRepo")
	return &taskRepo{db: db, log: repoLog}
}

func (tr *taskRepo) GetByID(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) (*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var task types.Task
	if err := transaction.WithContext(ctx).
		Preload("Hints", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Where("id = ?", taskID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (tr *taskRepo) ListByLessonIDs(ctx context.Context, tx *gorm.DB, lessonIDs []uuid.UUID) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.Task
	if len(lessonIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Hints", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Where("lesson_id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FirstHint returns the task's first hint by position. Hint usage is not
// tracked per user, so every call returns the same hint.
func (tr *taskRepo) FirstHint(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) (*types.Hint, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var hint types.Hint
	if err := transaction.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("position").
		First(&hint).Error; err != nil {
		return nil, err
	}
	return &hint, nil
}
