package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/types"
)

type CourseRepo interface {
	ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
	GetPublishedByID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error)
	ListSkills(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Skill, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (cr *courseRepo) ListPublished(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Course
	if err := transaction.WithContext(ctx).
		Where("is_published = ?", true).
		Order("title").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) GetPublishedByID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var course types.Course
	if err := transaction.WithContext(ctx).
		Where("id = ? AND is_published = ?", courseID, true).
		First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (cr *courseRepo) ListSkills(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Skill
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
