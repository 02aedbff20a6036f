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

type BadgeRepo interface {
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Badge, error)
	ListCodesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]string, error)
	Award(ctx context.Context, tx *gorm.DB, userID, badgeID uuid.UUID, now time.Time) (bool, error)
	ListUserBadges(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBadge, error)
}

type badgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBadgeRepo(db *gorm.DB, baseLog *logger.Logger) BadgeRepo {
	repoLog := baseLog.With("repo", "BadgeRepo")
	return &badgeRepo{db: db, log: repoLog}
}

func (br *badgeRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Badge, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var badge types.Badge
	if err := transaction.WithContext(ctx).
		Where("code = ?", code).
		First(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (br *badgeRepo) ListCodesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var codes []string
	if err := transaction.WithContext(ctx).
		Model(&types.UserBadge{}).
		Joins("JOIN badge ON badge.id = user_badge.badge_id").
		Where("user_badge.user_id = ?", userID).
		Pluck("badge.code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Award inserts the user_badge row if absent. The (user, badge) unique
// index makes the award at-most-once; a concurrent duplicate observes
// awarded=false.
func (br *badgeRepo) Award(ctx context.Context, tx *gorm.DB, userID, badgeID uuid.UUID, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	row := &types.UserBadge{
		ID:        uuid.New(),
		UserID:    userID,
		BadgeID:   badgeID,
		AwardedAt: now,
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (br *badgeRepo) ListUserBadges(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserBadge, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var results []*types.UserBadge
	if err := transaction.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("awarded_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
