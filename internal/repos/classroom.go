package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type ClassroomRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Classroom) (*types.Classroom, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Classroom, error)
	GetByTeacherID(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.Classroom, error)
	IncrementStudentCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, now time.Time) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error

	AddStudent(ctx context.Context, tx *gorm.DB, row *types.ClassroomStudent) (*types.ClassroomStudent, error)
	GetStudents(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID) ([]*types.ClassroomStudent, error)
}

type classroomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassroomRepo(db *gorm.DB, baseLog *logger.Logger) ClassroomRepo {
	return &classroomRepo{db: db, log: baseLog.With("repo", "ClassroomRepo")}
}

func (r *classroomRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Classroom) (*types.Classroom, error) {
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

func (r *classroomRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Classroom
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *classroomRepo) GetByTeacherID(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) ([]*types.Classroom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Classroom
	if teacherID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *classroomRepo) IncrementStudentCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, now time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Classroom{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"student_count": gorm.Expr("student_count + ?", 1),
			"last_updated":  now,
		}).Error
}

func (r *classroomRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Classroom{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *classroomRepo) AddStudent(ctx context.Context, tx *gorm.DB, row *types.ClassroomStudent) (*types.ClassroomStudent, error) {
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

func (r *classroomRepo) GetStudents(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID) ([]*types.ClassroomStudent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ClassroomStudent
	if classroomID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("classroom_id = ?", classroomID).
		Order("join_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
