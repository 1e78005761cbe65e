package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type MilestoneRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Milestone) (*types.Milestone, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Milestone, error)
	// GetByProjectID always returns rows sorted by sort_order ascending;
	// display order is never recomputed from slice position.
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Milestone, error)
	CountByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error)
	CountCompletedByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type milestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return &milestoneRepo{db: db, log: baseLog.With("repo", "MilestoneRepo")}
}

func (r *milestoneRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Milestone) (*types.Milestone, error) {
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

func (r *milestoneRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Milestone, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Milestone
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *milestoneRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Milestone, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Milestone
	if projectID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sort_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *milestoneRepo) CountByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Milestone{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *milestoneRepo) CountCompletedByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Milestone{}).
		Where("project_id = ? AND status = ?", projectID, types.MilestoneStatusCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *milestoneRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Milestone{}).
		Where("id = ?", id).
		Updates(fields).Error
}
