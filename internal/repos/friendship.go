package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/types"
)

type FriendshipRepo interface {
	Create(ctx context.Context, tx *gorm.DB, friendship *types.Friendship) error
	GetByID(ctx context.Context, tx *gorm.DB, friendshipID uuid.UUID) (*types.Friendship, error)
	GetBetween(ctx context.Context, tx *gorm.DB, userA, userB uuid.UUID) (*types.Friendship, error)
	ListPendingIncoming(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Friendship, error)
	ListPendingOutgoing(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Friendship, error)
	ListAcceptedFor(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Friendship, error)
	CountAcceptedFor(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, friendshipID uuid.UUID, status string) error
	Delete(ctx context.Context, tx *gorm.DB, friendshipID uuid.UUID) error
}

type friendshipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFriendshipRepo(db *gorm.DB, baseLog *logger.Logger) FriendshipRepo {
	repoLog := baseLog.With("repo", "FriendshipRepo")
	return &friendshipRepo{db: db, log: repoLog}
}

func (fr *friendshipRepo) Create(ctx context.Context, tx *gorm.DB, friendship *types.Friendship) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).Create(friendship).Error
}

func (fr *friendshipRepo) GetByID(ctx context.Context, tx *gorm.DB, friendshipID uuid.UUID) (*types.Friendship, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var friendship types.Friendship
	if err := transaction.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		Where("id = ?", friendshipID).
		First(&friendship).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetBetween finds the friendship row linking two users in either
// direction. Returns gorm.ErrRecordNotFound when none exists.
func (fr *friendshipRepo) GetBetween(ctx context.Context, tx *gorm.DB, userA, userB uuid.UUID) (*types.Friendship, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var friendship types.Friendship
	if err := transaction.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userA, userB, userB, userA).
		First(&friendship).Error; err != nil {
		return nil, err
	}
	return &friendship, nil
}

func (fr *friendshipRepo) ListPendingIncoming(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Friendship, error) {
	return fr.listByStatus(ctx, tx, "to_user_id", userID, types.FriendshipStatusPending)
}

func (fr *friendshipRepo) ListPendingOutgoing(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Friendship, error) {
	return fr.listByStatus(ctx, tx, "from_user_id", userID, types.FriendshipStatusPending)
}

func (fr *friendshipRepo) listByStatus(ctx context.Context, tx *gorm.DB, column string, userID uuid.UUID, status string) ([]*types.Friendship, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Friendship
	if err := transaction.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		Where(column+" = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *friendshipRepo) ListAcceptedFor(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Friendship, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Friendship
	if err := transaction.WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, types.FriendshipStatusAccepted).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *friendshipRepo) CountAcceptedFor(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Friendship{}).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, types.FriendshipStatusAccepted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (fr *friendshipRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, friendshipID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Friendship{}).
		Where("id = ?", friendshipID).
		Update("status", status).Error
}

func (fr *friendshipRepo) Delete(ctx context.Context, tx *gorm.DB, friendshipID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", friendshipID).
		Delete(&types.Friendship{}).Error
}
