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

type ChallengeCreateInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty" binding:"required"`
	DueDate     time.Time `json:"due_date"`
	StudentID   uuid.UUID `json:"student_id"`
}

type SubmissionReviewInput struct {
	Score    int    `json:"score" binding:"min=0,max=100"`
	Comments string `json:"comments"`
}

type ChallengeService interface {
	Create(ctx context.Context, input ChallengeCreateInput) (*types.Challenge, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Challenge, error)
	UpdateProgress(ctx context.Context, challengeID uuid.UUID, progress int) (*types.Challenge, error)
	// Submit records the submission and credits the student's
	// completed-challenges counter immediately, not when the review lands.
	Submit(ctx context.Context, challengeID, studentID uuid.UUID, content string) (*types.Submission, error)
	ListSubmissions(ctx context.Context, challengeID uuid.UUID) ([]*types.Submission, error)
	ReviewSubmission(ctx context.Context, submissionID uuid.UUID, input SubmissionReviewInput) (*types.Submission, error)
}

type challengeService struct {
	db             *gorm.DB
	log            *logger.Logger
	challengeRepo  repos.ChallengeRepo
	submissionRepo repos.SubmissionRepo
	stats          StatsService
	notifications  NotificationService
}

func NewChallengeService(
	db *gorm.DB,
	log *logger.Logger,
	challengeRepo repos.ChallengeRepo,
	submissionRepo repos.SubmissionRepo,
	stats StatsService,
	notifications NotificationService,
) ChallengeService {
	return &challengeService{
		db:             db,
		log:            log.With("service", "ChallengeService"),
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		stats:          stats,
		notifications:  notifications,
	}
}

func (s *challengeService) Create(ctx context.Context, input ChallengeCreateInput) (*types.Challenge, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("challenge title is required")
	}
	switch input.Difficulty {
	case types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard:
	default:
		return nil, fmt.Errorf("unknown difficulty %q", input.Difficulty)
	}
	if input.StudentID == uuid.Nil {
		return nil, fmt.Errorf("student id is required")
	}

	rows, err := s.challengeRepo.Create(ctx, nil, []*types.Challenge{{
		Title:       input.Title,
		Description: input.Description,
		Difficulty:  input.Difficulty,
		DueDate:     input.DueDate,
		StudentID:   input.StudentID,
		Status:      "active",
	}})
	if err != nil {
		return nil, fmt.Errorf("create challenge: %w", err)
	}
	return rows[0], nil
}

func (s *challengeService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Challenge, error) {
	rows, err := s.challengeRepo.GetByStudentID(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	return rows, nil
}

func (s *challengeService) UpdateProgress(ctx context.Context, challengeID uuid.UUID, progress int) (*types.Challenge, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("progress must be between 0 and 100")
	}
	if err := s.challengeRepo.UpdateProgress(ctx, nil, challengeID, progress); err != nil {
		return nil, fmt.Errorf("update challenge progress: %w", err)
	}
	row, err := s.challengeRepo.GetByID(ctx, nil, challengeID)
	if err != nil {
		return nil, fmt.Errorf("reload challenge: %w", err)
	}
	return row, nil
}

func (s *challengeService) Submit(ctx context.Context, challengeID, studentID uuid.UUID, content string) (*types.Submission, error) {
	if content == "" {
		return nil, fmt.Errorf("submission content is required")
	}
	if _, err := s.challengeRepo.GetByID(ctx, nil, challengeID); err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	created, err := s.submissionRepo.Create(ctx, nil, &types.Submission{
		ChallengeID: challengeID,
		StudentID:   studentID,
		Content:     content,
		Status:      types.SubmissionStatusPending,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	// The submission row stays behind if the counter write fails, same
	// partial-state posture as the milestone/analytics split, but the
	// caller must see the failure.
	if _, err := s.stats.GetOrInit(ctx, studentID); err != nil {
		return nil, fmt.Errorf("init stats for submission: %w", err)
	}
	if err := s.stats.ApplyDelta(ctx, studentID, types.StatsDelta{CompletedChallenges: 1}); err != nil {
		return nil, fmt.Errorf("credit completed challenge: %w", err)
	}
	return created, nil
}

func (s *challengeService) ListSubmissions(ctx context.Context, challengeID uuid.UUID) ([]*types.Submission, error) {
	rows, err := s.submissionRepo.GetByChallengeID(ctx, nil, challengeID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return rows, nil
}

func (s *challengeService) ReviewSubmission(ctx context.Context, submissionID uuid.UUID, input SubmissionReviewInput) (*types.Submission, error) {
	if input.Score < 0 || input.Score > 100 {
		return nil, fmt.Errorf("score must be between 0 and 100")
	}
	submission, err := s.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}

	now := time.Now().UTC()
	if err := s.submissionRepo.UpdateFields(ctx, nil, submissionID, map[string]interface{}{
		"status":      types.SubmissionStatusReviewed,
		"score":       input.Score,
		"reviewed_at": now,
	}); err != nil {
		return nil, fmt.Errorf("review submission: %w", err)
	}

	if input.Score > 0 {
		if err := s.stats.AwardPoints(ctx, submission.StudentID, input.Score); err != nil {
			s.log.Warn("Point award on review failed", "studentID", submission.StudentID, "error", err)
		}
	}
	s.notifications.Notify(ctx, submission.StudentID,
		types.NotificationTypeSystem,
		"Submission Reviewed",
		fmt.Sprintf("Your submission was scored %d/100", input.Score),
		"/dashboard/student/challenges",
	)
	return s.submissionRepo.GetByID(ctx, nil, submissionID)
}
