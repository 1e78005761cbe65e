package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type ClassroomCreateInput struct {
	Name string `json:"name" binding:"required"`
}

type RosterStudentInput struct {
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
}

type ClassroomService interface {
	Create(ctx context.Context, teacherID uuid.UUID, input ClassroomCreateInput) (*types.Classroom, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Classroom, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*types.Classroom, error)
	// AddStudent appends a roster entry and bumps the denormalized student
	// count in the same transaction.
	AddStudent(ctx context.Context, classroomID uuid.UUID, input RosterStudentInput) (*types.ClassroomStudent, error)
	ListStudents(ctx context.Context, classroomID uuid.UUID) ([]*types.ClassroomStudent, error)
	RefreshAggregates(ctx context.Context, classroomID uuid.UUID) (*types.Classroom, error)
}

type classroomService struct {
	db            *gorm.DB
	log           *logger.Logger
	classroomRepo repos.ClassroomRepo
}

func NewClassroomService(db *gorm.DB, log *logger.Logger, classroomRepo repos.ClassroomRepo) ClassroomService {
	return &classroomService{
		db:            db,
		log:           log.With("service", "ClassroomService"),
		classroomRepo: classroomRepo,
	}
}

func (s *classroomService) Create(ctx context.Context, teacherID uuid.UUID, input ClassroomCreateInput) (*types.Classroom, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("classroom name is required")
	}
	if teacherID == uuid.Nil {
		return nil, fmt.Errorf("teacher id is required")
	}
	created, err := s.classroomRepo.Create(ctx, nil, &types.Classroom{
		Name:        input.Name,
		TeacherID:   teacherID,
		LastUpdated: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create classroom: %w", err)
	}
	return created, nil
}

func (s *classroomService) Get(ctx context.Context, id uuid.UUID) (*types.Classroom, error) {
	row, err := s.classroomRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load classroom: %w", err)
	}
	return row, nil
}

func (s *classroomService) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*types.Classroom, error) {
	rows, err := s.classroomRepo.GetByTeacherID(ctx, nil, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return rows, nil
}

func (s *classroomService) AddStudent(ctx context.Context, classroomID uuid.UUID, input RosterStudentInput) (*types.ClassroomStudent, error) {
	if input.DisplayName == "" || input.Email == "" {
		return nil, fmt.Errorf("student name and email are required")
	}
	if _, err := s.classroomRepo.GetByID(ctx, nil, classroomID); err != nil {
		return nil, fmt.Errorf("load classroom: %w", err)
	}

	var created *types.ClassroomStudent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.classroomRepo.AddStudent(ctx, tx, &types.ClassroomStudent{
			ClassroomID: classroomID,
			DisplayName: input.DisplayName,
			Email:       input.Email,
			Status:      "active",
			JoinDate:    time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		return s.classroomRepo.IncrementStudentCount(ctx, tx, classroomID, time.Now().UTC())
	})
	if err != nil {
		return nil, fmt.Errorf("add classroom student: %w", err)
	}
	return created, nil
}

func (s *classroomService) ListStudents(ctx context.Context, classroomID uuid.UUID) ([]*types.ClassroomStudent, error) {
	rows, err := s.classroomRepo.GetStudents(ctx, nil, classroomID)
	if err != nil {
		return nil, fmt.Errorf("list classroom students: %w", err)
	}
	return rows, nil
}

// RefreshAggregates recomputes the denormalized average-progress figure
// from the roster rows. Cheap enough to run on demand; the counters are
// advisory between refreshes.
func (s *classroomService) RefreshAggregates(ctx context.Context, classroomID uuid.UUID) (*types.Classroom, error) {
	students, err := s.classroomRepo.GetStudents(ctx, nil, classroomID)
	if err != nil {
		return nil, fmt.Errorf("list classroom students: %w", err)
	}

	avg := 0.0
	if len(students) > 0 {
		total := 0
		for _, st := range students {
			total += st.Progress
		}
		avg = float64(total) / float64(len(students))
	}

	if err := s.classroomRepo.UpdateFields(ctx, nil, classroomID, map[string]interface{}{
		"student_count":    len(students),
		"average_progress": avg,
		"last_updated":     time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("update classroom aggregates: %w", err)
	}
	return s.classroomRepo.GetByID(ctx, nil, classroomID)
}
