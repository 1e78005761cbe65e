package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type SubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Submission) (*types.Submission, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Submission, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Submission, error)
	GetByChallengeID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) ([]*types.Submission, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Submission) (*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *submissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Submission
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *submissionRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Submission
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *submissionRepo) GetByChallengeID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Submission
	if challengeID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("submitted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *submissionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Where("id = ?", id).
		Updates(fields).Error
}
