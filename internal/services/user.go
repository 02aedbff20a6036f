package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	goredis "github.com/skrblv/bilimGO/internal/clients/redis"
	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/repos"
	"github.com/skrblv/bilimGO/internal/types"
	"github.com/skrblv/bilimGO/internal/utils"
)

// Friendship status values as seen from the requesting user's side.
const (
	RelationSelf            = "self"
	RelationFriends         = "friends"
	RelationRequestSent     = "request_sent"
	RelationRequestReceived = "request_received"
	RelationNotFriends      = "not_friends"
)

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]*UserSummary, error)
	Leaderboard(ctx context.Context) ([]*LeaderboardEntry, error)
	Profile(ctx context.Context, viewerID, targetID uuid.UUID) (*UserProfile, error)
}

type UserSummary struct {
	ID               uuid.UUID `json:"id"`
	Username         string    `json:"username"`
	AvatarURL        string    `json:"avatar"`
	XP               int       `json:"xp"`
	Streak           int       `json:"streak"`
	FriendshipStatus string    `json:"friendship_status"`
}

type LeaderboardEntry struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar"`
	XP        int       `json:"xp"`
	Streak    int       `json:"streak"`
}

type UserProfile struct {
	ID                 uuid.UUID          `json:"id"`
	Username           string             `json:"username"`
	AvatarURL          string             `json:"avatar"`
	XP                 int                `json:"xp"`
	Streak             int                `json:"streak"`
	FriendshipStatus   string             `json:"friendship_status"`
	FriendsCount       int64              `json:"friends_count"`
	Badges             []*types.UserBadge `json:"badges"`
	CompletedLessonIDs []uuid.UUID        `json:"completed_lesson_ids"`
}

type userService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	friendshipRepo repos.FriendshipRepo
	badgeRepo      repos.BadgeRepo
	progressRepo   repos.ProgressRepo
	cache          goredis.LeaderboardCache
	topLimit       int
}

func NewUserService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	friendshipRepo repos.FriendshipRepo,
	badgeRepo repos.BadgeRepo,
	progressRepo repos.ProgressRepo,
	cache goredis.LeaderboardCache,
) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{
		db:             db,
		log:            serviceLog,
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		badgeRepo:      badgeRepo,
		progressRepo:   progressRepo,
		cache:          cache,
		topLimit:       utils.GetEnvAsInt("LEADERBOARD_LIMIT", 100, serviceLog),
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (us *userService) Search(ctx context.Context, userID uuid.UUID, query string) ([]*UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*UserSummary{}, nil
	}
	matches, err := us.userRepo.Search(ctx, nil, query, userID)
	if err != nil {
		return nil, err
	}
	results := make([]*UserSummary, 0, len(matches))
	for _, match := range matches {
		status, err := us.relationBetween(ctx, userID, match.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, &UserSummary{
			ID:               match.ID,
			Username:         match.Username,
			AvatarURL:        match.AvatarURL,
			XP:               match.XP,
			Streak:           match.Streak,
			FriendshipStatus: status,
		})
	}
	return results, nil
}

func (us *userService) Leaderboard(ctx context.Context) ([]*LeaderboardEntry, error) {
	var entries []*LeaderboardEntry
	if us.cache != nil {
		hit, err := us.cache.Get(ctx, &entries)
		if err != nil {
			us.log.Warn("leaderboard cache read failed", "error", err)
		} else if hit {
			return entries, nil
		}
	}

	users, err := us.userRepo.Leaderboard(ctx, nil, us.topLimit)
	if err != nil {
		return nil, err
	}
	entries = make([]*LeaderboardEntry, 0, len(users))
	for _, user := range users {
		entries = append(entries, &LeaderboardEntry{
			ID:        user.ID,
			Username:  user.Username,
			AvatarURL: user.AvatarURL,
			XP:        user.XP,
			Streak:    user.Streak,
		})
	}

	if us.cache != nil {
		if err := us.cache.Set(ctx, entries); err != nil {
			us.log.Warn("leaderboard cache write failed", "error", err)
		}
	}
	return entries, nil
}

func (us *userService) Profile(ctx context.Context, viewerID, targetID uuid.UUID) (*UserProfile, error) {
	target, err := us.userRepo.GetByID(ctx, nil, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	status, err := us.relationBetween(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	friendsCount, err := us.friendshipRepo.CountAcceptedFor(ctx, nil, targetID)
	if err != nil {
		return nil, err
	}
	badges, err := us.badgeRepo.ListUserBadges(ctx, nil, targetID)
	if err != nil {
		return nil, err
	}
	lessonIDs, err := us.progressRepo.ListLessonIDsByUser(ctx, nil, targetID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{
		ID:                 target.ID,
		Username:           target.Username,
		AvatarURL:          target.AvatarURL,
		XP:                 target.XP,
		Streak:             target.Streak,
		FriendshipStatus:   status,
		FriendsCount:       friendsCount,
		Badges:             badges,
		CompletedLessonIDs: lessonIDs,
	}, nil
}

func (us *userService) relationBetween(ctx context.Context, viewerID, targetID uuid.UUID) (string, error) {
	if viewerID == targetID {
		return RelationSelf, nil
	}
	friendship, err := us.friendshipRepo.GetBetween(ctx, nil, viewerID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RelationNotFriends, nil
		}
		return "", err
	}
	switch friendship.Status {
	case types.FriendshipStatusAccepted:
		return RelationFriends, nil
	case types.FriendshipStatusPending:
		if friendship.FromUserID == viewerID {
			return RelationRequestSent, nil
		}
		return RelationRequestReceived, nil
	default:
		return RelationNotFriends, nil
	}
}
