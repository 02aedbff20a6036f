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

type FriendshipService interface {
	Requests(ctx context.Context, userID uuid.UUID) (*FriendRequests, error)
	ListFriends(ctx context.Context, userID uuid.UUID) ([]*types.User, error)
	SendRequest(ctx context.Context, fromID, toID uuid.UUID) (*types.Friendship, error)
	Accept(ctx context.Context, userID, friendshipID uuid.UUID) error
	Decline(ctx context.Context, userID, friendshipID uuid.UUID) error
	Remove(ctx context.Context, userID, friendID uuid.UUID) error
}

type FriendRequests struct {
	Incoming []*types.Friendship `json:"incoming"`
	Outgoing []*types.Friendship `json:"outgoing"`
}

type friendshipService struct {
	db             *gorm.DB
	log            *logger.Logger
	friendshipRepo repos.FriendshipRepo
	userRepo       repos.UserRepo
}

func NewFriendshipService(
	db *gorm.DB,
	baseLog *logger.Logger,
	friendshipRepo repos.FriendshipRepo,
	userRepo repos.UserRepo,
) FriendshipService {
	serviceLog := baseLog.With("service", "FriendshipService")
	return &friendshipService{
		db:             db,
		log:            serviceLog,
		friendshipRepo: friendshipRepo,
		userRepo:       userRepo,
	}
}

func (fs *friendshipService) Requests(ctx context.Context, userID uuid.UUID) (*FriendRequests, error) {
	incoming, err := fs.friendshipRepo.ListPendingIncoming(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	outgoing, err := fs.friendshipRepo.ListPendingOutgoing(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return &FriendRequests{Incoming: incoming, Outgoing: outgoing}, nil
}

func (fs *friendshipService) ListFriends(ctx context.Context, userID uuid.UUID) ([]*types.User, error) {
	accepted, err := fs.friendshipRepo.ListAcceptedFor(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	friends := make([]*types.User, 0, len(accepted))
	for _, friendship := range accepted {
		if friendship.FromUserID == userID {
			friends = append(friends, friendship.ToUser)
		} else {
			friends = append(friends, friendship.FromUser)
		}
	}
	return friends, nil
}

func (fs *friendshipService) SendRequest(ctx context.Context, fromID, toID uuid.UUID) (*types.Friendship, error) {
	if fromID == toID {
		return nil, fmt.Errorf("%w: cannot befriend yourself", ErrInvalidInput)
	}
	if _, err := fs.userRepo.GetByID(ctx, nil, toID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}

	existing, err := fs.friendshipRepo.GetBetween(ctx, nil, fromID, toID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case types.FriendshipStatusAccepted:
			return nil, fmt.Errorf("%w: already friends", ErrConflict)
		case types.FriendshipStatusPending:
			return nil, fmt.Errorf("%w: request already pending", ErrConflict)
		}
	}

	friendship := &types.Friendship{
		ID:         uuid.New(),
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     types.FriendshipStatusPending,
	}
	if err := fs.friendshipRepo.Create(ctx, nil, friendship); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: request already pending", ErrConflict)
		}
		return nil, err
	}
	fs.log.Info("friend request sent", "from", fromID, "to", toID)
	return friendship, nil
}

// Accept transitions a pending request addressed to userID.
func (fs *friendshipService) Accept(ctx context.Context, userID, friendshipID uuid.UUID) error {
	friendship, err := fs.friendshipRepo.GetByID(ctx, nil, friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if friendship.ToUserID != userID {
		return fmt.Errorf("%w: not the recipient of this request", ErrForbidden)
	}
	if friendship.Status != types.FriendshipStatusPending {
		return fmt.Errorf("%w: request is not pending", ErrConflict)
	}
	return fs.friendshipRepo.UpdateStatus(ctx, nil, friendshipID, types.FriendshipStatusAccepted)
}

// Decline removes the pending request entirely so the sender can try
// again later.
func (fs *friendshipService) Decline(ctx context.Context, userID, friendshipID uuid.UUID) error {
	friendship, err := fs.friendshipRepo.GetByID(ctx, nil, friendshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if friendship.ToUserID != userID {
		return fmt.Errorf("%w: not the recipient of this request", ErrForbidden)
	}
	if friendship.Status != types.FriendshipStatusPending {
		return fmt.Errorf("%w: request is not pending", ErrConflict)
	}
	return fs.friendshipRepo.Delete(ctx, nil, friendshipID)
}

func (fs *friendshipService) Remove(ctx context.Context, userID, friendID uuid.UUID) error {
	friendship, err := fs.friendshipRepo.GetBetween(ctx, nil, userID, friendID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if friendship.Status != types.FriendshipStatusAccepted {
		return fmt.Errorf("%w: not friends", ErrConflict)
	}
	return fs.friendshipRepo.Delete(ctx, nil, friendship.ID)
}
