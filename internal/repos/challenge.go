package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/types"
)

type ChallengeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) error
	GetByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Challenge, error)
	Save(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) error
}

type challengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
	repoLog := baseLog.With("repo", "ChallengeRepo")
	return &challengeRepo{db: db, log: repoLog}
}

func (chr *challengeRepo) Create(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) error {
	transaction := tx
	if transaction == nil {
		transaction = chr.db
	}
	return transaction.WithContext(ctx).Create(challenge).Error
}

func (chr *challengeRepo) GetByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = chr.db
	}
	var challenge types.Challenge
	if err := transaction.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Preload("Lesson").
		Where("id = ?", challengeID).
		First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

// GetForUpdate locks the challenge row so two concurrent result
// submissions cannot both miss the other's time.
func (chr *challengeRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = chr.db
	}
	q := transaction.WithContext(ctx)
	if transaction.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var challenge types.Challenge
	if err := q.Where("id = ?", challengeID).First(&challenge).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (chr *challengeRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = chr.db
	}
	var results []*types.Challenge
	if err := transaction.WithContext(ctx).
		Preload("Sender").
		Preload("Receiver").
		Preload("Lesson").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (chr *challengeRepo) Save(ctx context.Context, tx *gorm.DB, challenge *types.Challenge) error {
	transaction := tx
	if transaction == nil {
		transaction = chr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Challenge{}).
		Where("id = ?", challenge.ID).
		Updates(map[string]interface{}{
			"status":        challenge.Status,
			"sender_time":   challenge.SenderTime,
			"receiver_time": challenge.ReceiverTime,
			"winner_id":     challenge.WinnerID,
		}).Error
}
