package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type StudentDashboard struct {
	Stats         *types.StudentStats   `json:"stats"`
	Challenges    []*types.Challenge    `json:"challenges"`
	Projects      []*types.Project      `json:"projects"`
	Notifications []*types.Notification `json:"notifications"`
}

type TeacherDashboard struct {
	Classrooms    []*types.Classroom    `json:"classrooms"`
	TotalStudents int                   `json:"total_students"`
	Notifications []*types.Notification `json:"notifications"`
}

// DashboardService assembles the landing views. Each section loads
// concurrently; one failing section fails the whole dashboard rather than
// rendering a partial view.
type DashboardService interface {
	StudentDashboard(ctx context.Context, studentID uuid.UUID) (*StudentDashboard, error)
	TeacherDashboard(ctx context.Context, teacherID uuid.UUID) (*TeacherDashboard, error)
}

type dashboardService struct {
	log           *logger.Logger
	stats         StatsService
	challenges    ChallengeService
	projects      ProjectService
	classrooms    ClassroomService
	notifications NotificationService
}

func NewDashboardService(
	log *logger.Logger,
	stats StatsService,
	challenges ChallengeService,
	projects ProjectService,
	classrooms ClassroomService,
	notifications NotificationService,
) DashboardService {
	return &dashboardService{
		log:           log.With("service", "DashboardService"),
		stats:         stats,
		challenges:    challenges,
		projects:      projects,
		classrooms:    classrooms,
		notifications: notifications,
	}
}

func (s *dashboardService) StudentDashboard(ctx context.Context, studentID uuid.UUID) (*StudentDashboard, error) {
	if studentID == uuid.Nil {
		return nil, fmt.Errorf("student id is required")
	}

	dash := &StudentDashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.stats.GetOrInit(gctx, studentID)
		if err != nil {
			return err
		}
		dash.Stats = stats
		return nil
	})
	g.Go(func() error {
		rows, err := s.challenges.ListByStudent(gctx, studentID)
		if err != nil {
			return err
		}
		dash.Challenges = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.projects.ListByStudent(gctx, studentID)
		if err != nil {
			return err
		}
		dash.Projects = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.notifications.Unread(gctx, studentID)
		if err != nil {
			return err
		}
		dash.Notifications = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble student dashboard: %w", err)
	}
	return dash, nil
}

func (s *dashboardService) TeacherDashboard(ctx context.Context, teacherID uuid.UUID) (*TeacherDashboard, error) {
	if teacherID == uuid.Nil {
		return nil, fmt.Errorf("teacher id is required")
	}

	dash := &TeacherDashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.classrooms.ListByTeacher(gctx, teacherID)
		if err != nil {
			return err
		}
		dash.Classrooms = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.notifications.Unread(gctx, teacherID)
		if err != nil {
			return err
		}
		dash.Notifications = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assemble teacher dashboard: %w", err)
	}

	for _, room := range dash.Classrooms {
		dash.TotalStudents += room.StudentCount
	}
	return dash, nil
}
