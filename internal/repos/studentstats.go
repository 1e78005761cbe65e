package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type StudentStatsRepo interface {
	// GetByStudentID reports absence through the bool, not an error:
	// a missing row means the stats need initialization.
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentStats, bool, error)
	Create(ctx context.Context, tx *gorm.DB, row *types.StudentStats) (*types.StudentStats, error)
	// ApplyDelta increments counters in a single UPDATE so concurrent
	// callers never clobber each other.
	ApplyDelta(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, delta types.StatsDelta, now time.Time) error
	UpdateFields(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, fields map[string]interface{}) error
}

type studentStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentStatsRepo(db *gorm.DB, baseLog *logger.Logger) StudentStatsRepo {
	return &studentStatsRepo{db: db, log: baseLog.With("repo", "StudentStatsRepo")}
}

func (r *studentStatsRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.StudentStats, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.StudentStats
	err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &result, true, nil
}

func (r *studentStatsRepo) Create(ctx context.Context, tx *gorm.DB, row *types.StudentStats) (*types.StudentStats, error) {
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

func (r *studentStatsRepo) ApplyDelta(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, delta types.StatsDelta, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	fields := map[string]interface{}{
		"last_active": now,
	}
	if delta.CompletedChallenges != 0 {
		fields["completed_challenges"] = gorm.Expr("completed_challenges + ?", delta.CompletedChallenges)
	}
	if delta.TotalPoints != 0 {
		fields["total_points"] = gorm.Expr("total_points + ?", delta.TotalPoints)
	}

	return transaction.WithContext(ctx).
		Model(&types.StudentStats{}).
		Where("student_id = ?", studentID).
		Updates(fields).Error
}

func (r *studentStatsRepo) UpdateFields(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.StudentStats{}).
		Where("student_id = ?", studentID).
		Updates(fields).Error
}
