package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/sse"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type MilestoneCreateInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
}

type MilestoneUpdateInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

type MilestoneService interface {
	Create(ctx context.Context, projectID uuid.UUID, input MilestoneCreateInput) (*types.Milestone, error)
	Update(ctx context.Context, milestoneID uuid.UUID, input MilestoneUpdateInput) (*types.Milestone, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*types.Milestone, error)
}

type milestoneService struct {
	db            *gorm.DB
	log           *logger.Logger
	milestoneRepo repos.MilestoneRepo
	projectRepo   repos.ProjectRepo
	analytics     AnalyticsService
	notifications NotificationService
	emitter       SSEEmitter
}

func NewMilestoneService(
	db *gorm.DB,
	log *logger.Logger,
	milestoneRepo repos.MilestoneRepo,
	projectRepo repos.ProjectRepo,
	analytics AnalyticsService,
	notifications NotificationService,
	emitter SSEEmitter,
) MilestoneService {
	return &milestoneService{
		db:            db,
		log:           log.With("service", "MilestoneService"),
		milestoneRepo: milestoneRepo,
		projectRepo:   projectRepo,
		analytics:     analytics,
		notifications: notifications,
		emitter:       emitter,
	}
}

// Create inserts the milestone and bumps the project's total_milestones
// counter in one transaction. The display position is the count of
// existing milestones plus one, read just before the insert; two creators
// racing on the same project can end up with the same position, which the
// sorted listing tolerates. Analytics and the owner notification run after
// commit and never fail the create.
func (s *milestoneService) Create(ctx context.Context, projectID uuid.UUID, input MilestoneCreateInput) (*types.Milestone, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("milestone title is required")
	}

	project, err := s.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	var created *types.Milestone
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.milestoneRepo.CountByProjectID(ctx, tx, projectID)
		if err != nil {
			return err
		}

		row := &types.Milestone{
			ProjectID:   projectID,
			Title:       input.Title,
			Description: input.Description,
			DueDate:     input.DueDate,
			Status:      types.MilestoneStatusPending,
			SortOrder:   int(existing) + 1,
		}
		created, err = s.milestoneRepo.Create(ctx, tx, row)
		if err != nil {
			return err
		}

		return s.projectRepo.IncrementTotalMilestones(ctx, tx, projectID, time.Now().UTC())
	})
	if err != nil {
		return nil, fmt.Errorf("create milestone: %w", err)
	}

	s.analytics.RecordMilestoneCreated(ctx, projectID)
	s.notifications.Notify(ctx, project.StudentID,
		types.NotificationTypeMilestone,
		"New Milestone Created",
		fmt.Sprintf("A new milestone %q was added to %s", created.Title, project.Title),
		"/dashboard/student/projects/"+projectID.String(),
	)
	if s.emitter != nil {
		s.emitter.Emit(ctx, sse.SSEMessage{
			Channel: ProjectChannel(projectID),
			Event:   sse.SSEEventMilestoneCreated,
			Data:    created,
		})
	}
	return created, nil
}

// ProjectChannel is the SSE channel name project-scoped events go out on.
func ProjectChannel(projectID uuid.UUID) string {
	return "project:" + projectID.String()
}

func (s *milestoneService) Update(ctx context.Context, milestoneID uuid.UUID, input MilestoneUpdateInput) (*types.Milestone, error) {
	current, err := s.milestoneRepo.GetByID(ctx, nil, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("load milestone: %w", err)
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.DueDate != nil {
		fields["due_date"] = *input.DueDate
	}

	completing := false
	if input.Status != nil {
		switch *input.Status {
		case types.MilestoneStatusPending, types.MilestoneStatusInProgress, types.MilestoneStatusCompleted:
		default:
			return nil, fmt.Errorf("unknown milestone status %q", *input.Status)
		}
		fields["status"] = *input.Status
		completing = *input.Status == types.MilestoneStatusCompleted &&
			current.Status != types.MilestoneStatusCompleted
		if completing {
			now := time.Now().UTC()
			fields["completed_at"] = &now
		}
	}

	if len(fields) == 0 {
		return current, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.milestoneRepo.UpdateFields(ctx, tx, milestoneID, fields); err != nil {
			return err
		}
		if completing {
			return s.projectRepo.IncrementCurrentMilestone(ctx, tx, current.ProjectID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update milestone: %w", err)
	}

	if completing {
		s.analytics.RecordMilestoneCompleted(ctx, current.ProjectID)
	}
	updated, err := s.milestoneRepo.GetByID(ctx, nil, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("reload milestone: %w", err)
	}
	if s.emitter != nil {
		s.emitter.Emit(ctx, sse.SSEMessage{
			Channel: ProjectChannel(current.ProjectID),
			Event:   sse.SSEEventProjectUpdated,
			Data:    updated,
		})
	}
	return updated, nil
}

func (s *milestoneService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*types.Milestone, error) {
	rows, err := s.milestoneRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	return rows, nil
}
