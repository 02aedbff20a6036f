package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/types"
)

type ProgressRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, now time.Time) (*types.UserProgress, bool, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	ListLessonIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	TouchCompletedAt(ctx context.Context, tx *gorm.DB, progressID uuid.UUID, now time.Time) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	repoLog := baseLog.With("repo", "ProgressRepo")
	return &progressRepo{db: db, log: repoLog}
}

// GetOrCreate inserts a completion record for (user, lesson) or returns
// the existing one. The insert uses ON CONFLICT DO NOTHING against the
// unique index, so under concurrent duplicate requests exactly one caller
// observes created=true.
func (pr *progressRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, now time.Time) (*types.UserProgress, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	progress := &types.UserProgress{
		ID:          uuid.New(),
		UserID:      userID,
		LessonID:    lessonID,
		CompletedAt: now,
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(progress)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return progress, true, nil
	}
	var existing types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (pr *progressRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *progressRepo) ListLessonIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("user_id = ?", userID).
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (pr *progressRepo) TouchCompletedAt(ctx context.Context, tx *gorm.DB, progressID uuid.UUID, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("id = ?", progressID).
		Update("completed_at", now).Error
}
