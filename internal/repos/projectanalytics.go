package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type ProjectAnalyticsRepo interface {
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.ProjectAnalytics, bool, error)
	// CreateIfMissing inserts the zero-valued row, doing nothing when a row
	// already exists for the project. Safe to call unconditionally.
	CreateIfMissing(ctx context.Context, tx *gorm.DB, row *types.ProjectAnalytics) error
	UpdateFields(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, fields map[string]interface{}) error
	IncrementMilestoneCount(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, now time.Time) error
	IncrementCompletedMilestones(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, now time.Time) error
}

type projectAnalyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) ProjectAnalyticsRepo {
	return &projectAnalyticsRepo{db: db, log: baseLog.With("repo", "ProjectAnalyticsRepo")}
}

func (r *projectAnalyticsRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (*types.ProjectAnalytics, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ProjectAnalytics
	err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &result, true, nil
}

func (r *projectAnalyticsRepo) CreateIfMissing(ctx context.Context, tx *gorm.DB, row *types.ProjectAnalytics) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *projectAnalyticsRepo) UpdateFields(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.ProjectAnalytics{}).
		Where("project_id = ?", projectID).
		Updates(fields).Error
}

func (r *projectAnalyticsRepo) IncrementMilestoneCount(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ProjectAnalytics{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{
			"milestone_count": gorm.Expr("milestone_count + ?", 1),
			"last_updated":    now,
		}).Error
}

func (r *projectAnalyticsRepo) IncrementCompletedMilestones(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ProjectAnalytics{}).
		Where("project_id = ?", projectID).
		Updates(map[string]interface{}{
			"completed_milestones": gorm.Expr("completed_milestones + ?", 1),
			"last_updated":         now,
		}).Error
}
