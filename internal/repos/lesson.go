package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/types"
)

type LessonRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error)
	ListBySkillIDs(ctx context.Context, tx *gorm.DB, skillIDs []uuid.UUID) ([]*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (lr *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var lesson types.Lesson
	if err := transaction.WithContext(ctx).
		Where("id = ?", lessonID).
		First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (lr *lessonRepo) ListBySkillIDs(ctx context.Context, tx *gorm.DB, skillIDs []uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []*types.Lesson
	if len(skillIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("skill_id IN ?", skillIDs).
		Order("position").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
