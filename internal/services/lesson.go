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

type LessonService interface {
	Complete(ctx context.Context, userID, lessonID uuid.UUID) (*CompletionResult, error)
}

type CompletionResult struct {
	Message   string         `json:"message"`
	XPEarned  int            `json:"xp_earned"`
	NewBadges []*types.Badge `json:"new_badges"`
	User      *types.User    `json:"user"`
}

type lessonService struct {
	db           *gorm.DB
	log          *logger.Logger
	lessonRepo   repos.LessonRepo
	progressRepo repos.ProgressRepo
	userRepo     repos.UserRepo
	badgeService BadgeService
	now          func() time.Time
}

func NewLessonService(
	db *gorm.DB,
	baseLog *logger.Logger,
	lessonRepo repos.LessonRepo,
	progressRepo repos.ProgressRepo,
	userRepo repos.UserRepo,
	badgeService BadgeService,
) LessonService {
	serviceLog := baseLog.With("service", "LessonService")
	return &lessonService{
		db:           db,
		log:          serviceLog,
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
		userRepo:     userRepo,
		badgeService: badgeService,
		now:          time.Now,
	}
}

// Complete records a lesson completion. First completion of a lesson
// grants its XP reward, advances the daily streak and re-evaluates
// badges, all in one transaction. Repeat completions only refresh the
// completion timestamp.
func (ls *lessonService) Complete(ctx context.Context, userID, lessonID uuid.UUID) (*CompletionResult, error) {
	lesson, err := ls.lessonRepo.GetByID(ctx, nil, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var result *CompletionResult
	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := ls.now()
		progress, created, err := ls.progressRepo.GetOrCreate(ctx, tx, userID, lessonID, now)
		if err != nil {
			return err
		}
		if !created {
			if err := ls.progressRepo.TouchCompletedAt(ctx, tx, progress.ID, now); err != nil {
				return err
			}
			user, err := ls.userRepo.GetByID(ctx, tx, userID)
			if err != nil {
				return err
			}
			result = &CompletionResult{
				Message:   "lesson already completed",
				XPEarned:  0,
				NewBadges: []*types.Badge{},
				User:      user,
			}
			return nil
		}

		user, err := ls.userRepo.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		today := truncateToDate(now)
		streak := nextStreak(user.LastActivityDate, today, user.Streak)

		fields := map[string]interface{}{
			"xp":                 user.XP + lesson.XPReward,
			"streak":             streak,
			"last_activity_date": today,
		}
		if err := ls.userRepo.UpdateProgressFields(ctx, tx, userID, fields); err != nil {
			return err
		}
		user.XP += lesson.XPReward
		user.Streak = streak
		user.LastActivityDate = &today

		newBadges, err := ls.badgeService.EvaluateForUser(ctx, tx, user)
		if err != nil {
			return err
		}
		if newBadges == nil {
			newBadges = []*types.Badge{}
		}

		result = &CompletionResult{
			Message:   "lesson completed",
			XPEarned:  lesson.XPReward,
			NewBadges: newBadges,
			User:      user,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ls.log.Info("lesson completion processed",
		"user_id", userID, "lesson_id", lessonID, "xp_earned", result.XPEarned)
	return result, nil
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// nextStreak applies the daily streak rules: a first activity or a gap of
// more than one day resets to 1, consecutive days increment, repeat
// activity on the same day leaves the streak alone.
func nextStreak(lastActivity *time.Time, today time.Time, current int) int {
	if lastActivity == nil {
		return 1
	}
	last := truncateToDate(*lastActivity)
	switch {
	case last.Equal(today):
		if current < 1 {
			return 1
		}
		return current
	case last.AddDate(0, 0, 1).Equal(today):
		return current + 1
	default:
		return 1
	}
}
