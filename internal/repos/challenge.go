package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type ChallengeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Challenge) ([]*types.Challenge, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Challenge, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Challenge, error)
	UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, progress int) error
}

type challengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
	return &challengeRepo{db: db, log: baseLog.With("repo", "ChallengeRepo")}
}

func (r *challengeRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Challenge) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.Challenge{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *challengeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Challenge
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *challengeRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Challenge
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("due_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *challengeRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, id uuid.UUID, progress int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Challenge{}).
		Where("id = ?", id).
		Update("progress", progress).Error
}
