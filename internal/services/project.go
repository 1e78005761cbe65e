package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/normalization"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/sse"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type ProjectCreateInput struct {
	Title     string    `json:"title" binding:"required"`
	Type      string    `json:"type" binding:"required"`
	StudentID uuid.UUID `json:"student_id"`
	Status    string    `json:"status"`
}

type ProjectUpdateInput struct {
	Title    *string `json:"title,omitempty"`
	Type     *string `json:"type,omitempty"`
	Status   *string `json:"status,omitempty"`
	Progress *int    `json:"progress,omitempty"`
}

type ProjectService interface {
	Create(ctx context.Context, input ProjectCreateInput) (*types.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Project, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Project, error)
	Update(ctx context.Context, id uuid.UUID, input ProjectUpdateInput) (*types.Project, error)
}

type projectService struct {
	db            *gorm.DB
	log           *logger.Logger
	projectRepo   repos.ProjectRepo
	analytics     AnalyticsService
	notifications NotificationService
	emitter       SSEEmitter
}

func NewProjectService(
	db *gorm.DB,
	log *logger.Logger,
	projectRepo repos.ProjectRepo,
	analytics AnalyticsService,
	notifications NotificationService,
	emitter SSEEmitter,
) ProjectService {
	return &projectService{
		db:            db,
		log:           log.With("service", "ProjectService"),
		projectRepo:   projectRepo,
		analytics:     analytics,
		notifications: notifications,
		emitter:       emitter,
	}
}

func validProjectType(t string) bool {
	switch t {
	case types.ProjectTypeFrontend, types.ProjectTypeBackend, types.ProjectTypeFullStack:
		return true
	}
	return false
}

func validProjectStatus(s string) bool {
	switch s {
	case types.ProjectStatusPlanning, types.ProjectStatusInProgress, types.ProjectStatusCompleted:
		return true
	}
	return false
}

func (s *projectService) Create(ctx context.Context, input ProjectCreateInput) (*types.Project, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("project title is required")
	}
	if !validProjectType(input.Type) {
		return nil, fmt.Errorf("unknown project type %q", input.Type)
	}
	if input.StudentID == uuid.Nil {
		return nil, fmt.Errorf("student id is required")
	}

	status := types.ProjectStatusPlanning
	if input.Status != "" {
		status = normalization.ParseProjectStatus(input.Status)
		if !validProjectStatus(status) {
			return nil, fmt.Errorf("unknown project status %q", input.Status)
		}
	}

	row := &types.Project{
		Title:       input.Title,
		Type:        input.Type,
		StudentID:   input.StudentID,
		Status:      status,
		LastUpdated: time.Now().UTC(),
	}
	created, err := s.projectRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := s.analytics.EnsureAnalytics(ctx, nil, created.ID); err != nil {
		s.log.Warn("Analytics init after project create failed", "projectID", created.ID, "error", err)
	}
	s.notifications.Notify(ctx, created.StudentID,
		types.NotificationTypeProject,
		"Project Created",
		fmt.Sprintf("Your project %q is ready to go", created.Title),
		"/dashboard/student/projects/"+created.ID.String(),
	)
	return created, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return project, nil
}

func (s *projectService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Project, error) {
	rows, err := s.projectRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return rows, nil
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, input ProjectUpdateInput) (*types.Project, error) {
	current, err := s.projectRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Type != nil {
		if !validProjectType(*input.Type) {
			return nil, fmt.Errorf("unknown project type %q", *input.Type)
		}
		fields["type"] = *input.Type
	}
	if input.Status != nil {
		status := normalization.ParseProjectStatus(*input.Status)
		if !validProjectStatus(status) {
			return nil, fmt.Errorf("unknown project status %q", *input.Status)
		}
		fields["status"] = status
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, fmt.Errorf("progress must be between 0 and 100")
		}
		fields["progress"] = *input.Progress
	}

	if len(fields) == 0 {
		return current, nil
	}
	fields["last_updated"] = time.Now().UTC()

	if err := s.projectRepo.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	updated, err := s.projectRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("reload project: %w", err)
	}

	if s.emitter != nil {
		s.emitter.Emit(ctx, sse.SSEMessage{
			Channel: ProjectChannel(id),
			Event:   sse.SSEEventProjectUpdated,
			Data:    updated,
		})
	}
	return updated, nil
}

// ProjectProgress derives the percent-complete figure from the
// denormalized milestone counters. Zero milestones means zero percent.
func ProjectProgress(p *types.Project) int {
	if p == nil || p.TotalMilestones <= 0 {
		return 0
	}
	pct := p.CurrentMilestone * 100 / p.TotalMilestones
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
