package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Project) (*types.Project, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Project, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	// IncrementTotalMilestones bumps the denormalized counter and stamps
	// last_updated in a single UPDATE.
	IncrementTotalMilestones(ctx context.Context, tx *gorm.DB, id uuid.UUID, now time.Time) error
	IncrementCurrentMilestone(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CountActiveByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error)
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (r *projectRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Project) (*types.Project, error) {
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

func (r *projectRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Project
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *projectRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Project
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("last_updated DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *projectRepo) IncrementTotalMilestones(ctx context.Context, tx *gorm.DB, id uuid.UUID, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_milestones": gorm.Expr("total_milestones + ?", 1),
			"last_updated":     now,
		}).Error
}

func (r *projectRepo) IncrementCurrentMilestone(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("id = ?", id).
		Update("current_milestone", gorm.Expr("current_milestone + ?", 1)).Error
}

func (r *projectRepo) CountActiveByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Project{}).
		Where("student_id = ? AND status <> ?", studentID, types.ProjectStatusCompleted).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
