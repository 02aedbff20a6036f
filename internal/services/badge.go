package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/types"
)

type BadgeService interface {
	// EvaluateForUser awards every badge whose condition the user now
	// meets and returns the freshly awarded ones. Runs inside the
	// caller's transaction.
	EvaluateForUser(ctx context.Context, tx *gorm.DB, user *types.User) ([]*types.Badge, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.UserBadge, error)
}

type badgeRule struct {
	code string
	met  func(user *types.User, completedLessons int64) bool
}

type badgeService struct {
	db           *gorm.DB
	log          *logger.Logger
	badgeRepo    repos.BadgeRepo
	progressRepo repos.ProgressRepo
}

func NewBadgeService(
	db *gorm.DB,
	baseLog *logger.Logger,
	badgeRepo repos.BadgeRepo,
	progressRepo repos.ProgressRepo,
) BadgeService {
	serviceLog := baseLog.With("service", "BadgeService")
	return &badgeService{
		db:           db,
		log:          serviceLog,
		badgeRepo:    badgeRepo,
		progressRepo: progressRepo,
	}
}

func rules() []badgeRule {
	return []badgeRule{
		{
			code: types.BadgeCodeFirstLesson,
			met: func(_ *types.User, completed int64) bool {
				return completed >= 1
			},
		},
		{
			code: types.BadgeCodeStreak5Days,
			met: func(user *types.User, _ int64) bool {
				return user.Streak >= 5
			},
		},
		{
			code: types.BadgeCodeLessons10,
			met: func(_ *types.User, completed int64) bool {
				return completed >= 10
			},
		},
	}
}

func (bs *badgeService) EvaluateForUser(ctx context.Context, tx *gorm.DB, user *types.User) ([]*types.Badge, error) {
	completed, err := bs.progressRepo.CountByUser(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}

	var awarded []*types.Badge
	now := time.Now()
	for _, rule := range rules() {
		if !rule.met(user, completed) {
			continue
		}
		badge, err := bs.badgeRepo.GetByCode(ctx, tx, rule.code)
		if err != nil {
			// Badge catalog rows are seeded separately; a missing row
			// means the badge is not live yet, not a failure.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		created, err := bs.badgeRepo.Award(ctx, tx, user.ID, badge.ID, now)
		if err != nil {
			return nil, err
		}
		if created {
			bs.log.Info("badge awarded", "user_id", user.ID, "code", badge.Code)
			awarded = append(awarded, badge)
		}
	}
	return awarded, nil
}

func (bs *badgeService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.UserBadge, error) {
	return bs.badgeRepo.ListUserBadges(ctx, nil, userID)
}
