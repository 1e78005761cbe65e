package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/sse"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type FeedbackInput struct {
	Content  string     `json:"content" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

type FeedbackService interface {
	// Add appends a feedback entry and notifies the project owner. Entries
	// are never edited or deleted.
	Add(ctx context.Context, projectID, authorID uuid.UUID, authorRole string, input FeedbackInput) (*types.Feedback, error)
	ListForProject(ctx context.Context, projectID uuid.UUID) ([]*types.Feedback, error)
}

type feedbackService struct {
	db            *gorm.DB
	log           *logger.Logger
	feedbackRepo  repos.FeedbackRepo
	projectRepo   repos.ProjectRepo
	notifications NotificationService
	emitter       SSEEmitter
}

func NewFeedbackService(
	db *gorm.DB,
	log *logger.Logger,
	feedbackRepo repos.FeedbackRepo,
	projectRepo repos.ProjectRepo,
	notifications NotificationService,
	emitter SSEEmitter,
) FeedbackService {
	return &feedbackService{
		db:            db,
		log:           log.With("service", "FeedbackService"),
		feedbackRepo:  feedbackRepo,
		projectRepo:   projectRepo,
		notifications: notifications,
		emitter:       emitter,
	}
}

func (s *feedbackService) Add(ctx context.Context, projectID, authorID uuid.UUID, authorRole string, input FeedbackInput) (*types.Feedback, error) {
	if input.Content == "" {
		return nil, fmt.Errorf("feedback content is required")
	}
	project, err := s.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	created, err := s.feedbackRepo.Create(ctx, nil, &types.Feedback{
		ProjectID:  projectID,
		AuthorID:   authorID,
		AuthorRole: authorRole,
		Content:    input.Content,
		ParentID:   input.ParentID,
	})
	if err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}

	// The owner hears about feedback from others, not their own replies.
	if project.StudentID != authorID {
		s.notifications.Notify(ctx, project.StudentID,
			types.NotificationTypeFeedback,
			"New Feedback",
			fmt.Sprintf("New feedback on %s", project.Title),
			"/dashboard/student/projects/"+projectID.String(),
		)
	}
	if s.emitter != nil {
		s.emitter.Emit(ctx, sse.SSEMessage{
			Channel: ProjectChannel(projectID),
			Event:   sse.SSEEventFeedbackAdded,
			Data:    created,
		})
	}
	return created, nil
}

func (s *feedbackService) ListForProject(ctx context.Context, projectID uuid.UUID) ([]*types.Feedback, error) {
	rows, err := s.feedbackRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return rows, nil
}
