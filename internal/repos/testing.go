package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skrblv/bilimGO/internal/logger"
	"github.com/skrblv/bilimGO/internal/types"
)

type QuestionBankRepo interface {
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.QuestionBank, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.QuestionBank, error)
}

type questionBankRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionBankRepo(db *gorm.DB, baseLog *logger.Logger) QuestionBankRepo {
	repoLog := baseLog.With("repo", "QuestionBankRepo")
	return &questionBankRepo{db: db, log: repoLog}
}

func (qr *questionBankRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.QuestionBank, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.QuestionBank
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionBankRepo) GetByIDs(ctx context.Context, tx *gorm.DB, questionIDs []uuid.UUID) ([]*types.QuestionBank, error) {
	transaction := tx
	if transaction == nil {
		transaction = qr.db
	}
	var results []*types.QuestionBank
	if len(questionIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", questionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type CertificationTestRepo interface {
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.CertificationTest, error)
	GetByID(ctx context.Context, tx *gorm.DB, testID uuid.UUID) (*types.CertificationTest, error)
}

type certificationTestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificationTestRepo(db *gorm.DB, baseLog *logger.Logger) CertificationTestRepo {
	repoLog := baseLog.With("repo", "CertificationTestRepo")
	return &certificationTestRepo{db: db, log: repoLog}
}

func (ctr *certificationTestRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (*types.CertificationTest, error) {
	transaction := tx
	if transaction == nil {
		transaction = ctr.db
	}
	var test types.CertificationTest
	if err := transaction.WithContext(ctx).
		Where("course_id = ?", courseID).
		First(&test).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (ctr *certificationTestRepo) GetByID(ctx context.Context, tx *gorm.DB, testID uuid.UUID) (*types.CertificationTest, error) {
	transaction := tx
	if transaction == nil {
		transaction = ctr.db
	}
	var test types.CertificationTest
	if err := transaction.WithContext(ctx).
		Where("id = ?", testID).
		First(&test).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

type TestAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, attempt *types.UserTestAttempt) error
	GetByIDForUser(ctx context.Context, tx *gorm.DB, attemptID, userID uuid.UUID) (*types.UserTestAttempt, error)
	Save(ctx context.Context, tx *gorm.DB, attempt *types.UserTestAttempt) error
}

type testAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestAttemptRepo(db *gorm.DB, baseLog *logger.Logger) TestAttemptRepo {
	repoLog := baseLog.With("repo", "TestAttemptRepo")
	return &testAttemptRepo{db: db, log: repoLog}
}

func (tar *testAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *types.UserTestAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = tar.db
	}
	return transaction.WithContext(ctx).Create(attempt).Error
}

func (tar *testAttemptRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, attemptID, userID uuid.UUID) (*types.UserTestAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = tar.db
	}
	var attempt types.UserTestAttempt
	if err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", attemptID, userID).
		First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (tar *testAttemptRepo) Save(ctx context.Context, tx *gorm.DB, attempt *types.UserTestAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = tar.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserTestAttempt{}).
		Where("id = ?", attempt.ID).
		Updates(map[string]interface{}{
			"end_time":     attempt.EndTime,
			"score":        attempt.Score,
			"is_passed":    attempt.IsPassed,
			"session_data": attempt.SessionData,
		}).Error
}
