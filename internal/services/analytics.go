package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

// AnalyticsUpdate carries the writable analytics fields. Nil pointers are
// not applied, so partial updates leave the other counters alone.
type AnalyticsUpdate struct {
	ComplexityScore   *int           `json:"complexity_score,omitempty"`
	LinesOfCode       *int           `json:"lines_of_code,omitempty"`
	TimeSpent         *int           `json:"time_spent,omitempty"`
	LanguageBreakdown map[string]int `json:"language_breakdown,omitempty"`
}

type AnalyticsService interface {
	// EnsureAnalytics lazily creates the all-zero analytics row for a
	// project. Idempotent; repeated calls leave an existing row untouched.
	EnsureAnalytics(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error
	Get(ctx context.Context, projectID uuid.UUID) (*types.ProjectAnalytics, error)
	Update(ctx context.Context, projectID uuid.UUID, update AnalyticsUpdate) (*types.ProjectAnalytics, error)
	RecordMilestoneCreated(ctx context.Context, projectID uuid.UUID)
	RecordMilestoneCompleted(ctx context.Context, projectID uuid.UUID)
	ProjectMetrics(ctx context.Context, projectID uuid.UUID) (*types.ProjectMetrics, error)
}

type analyticsService struct {
	db            *gorm.DB
	log           *logger.Logger
	analyticsRepo repos.ProjectAnalyticsRepo
	milestoneRepo repos.MilestoneRepo
}

func NewAnalyticsService(db *gorm.DB, log *logger.Logger, analyticsRepo repos.ProjectAnalyticsRepo, milestoneRepo repos.MilestoneRepo) AnalyticsService {
	return &analyticsService{
		db:            db,
		log:           log.With("service", "AnalyticsService"),
		analyticsRepo: analyticsRepo,
		milestoneRepo: milestoneRepo,
	}
}

func (s *analyticsService) EnsureAnalytics(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	if projectID == uuid.Nil {
		return fmt.Errorf("project id is required")
	}
	row := &types.ProjectAnalytics{
		ProjectID:   projectID,
		LastUpdated: time.Now().UTC(),
	}
	if err := s.analyticsRepo.CreateIfMissing(ctx, tx, row); err != nil {
		return fmt.Errorf("ensure project analytics: %w", err)
	}
	return nil
}

func (s *analyticsService) Get(ctx context.Context, projectID uuid.UUID) (*types.ProjectAnalytics, error) {
	row, found, err := s.analyticsRepo.GetByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("read project analytics: %w", err)
	}
	if !found {
		if err := s.EnsureAnalytics(ctx, nil, projectID); err != nil {
			return nil, err
		}
		row, found, err = s.analyticsRepo.GetByProjectID(ctx, nil, projectID)
		if err != nil {
			return nil, fmt.Errorf("read project analytics: %w", err)
		}
		if !found {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return row, nil
}

func (s *analyticsService) Update(ctx context.Context, projectID uuid.UUID, update AnalyticsUpdate) (*types.ProjectAnalytics, error) {
	if err := s.EnsureAnalytics(ctx, nil, projectID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"last_updated": time.Now().UTC(),
	}
	if update.ComplexityScore != nil {
		fields["complexity_score"] = *update.ComplexityScore
	}
	if update.LinesOfCode != nil {
		fields["lines_of_code"] = *update.LinesOfCode
	}
	if update.TimeSpent != nil {
		fields["time_spent"] = *update.TimeSpent
	}
	if update.LanguageBreakdown != nil {
		raw, err := json.Marshal(update.LanguageBreakdown)
		if err != nil {
			return nil, fmt.Errorf("encode language breakdown: %w", err)
		}
		fields["language_breakdown"] = datatypes.JSON(raw)
	}

	if err := s.analyticsRepo.UpdateFields(ctx, nil, projectID, fields); err != nil {
		return nil, fmt.Errorf("update project analytics: %w", err)
	}
	return s.Get(ctx, projectID)
}

// RecordMilestoneCreated bumps the advisory milestone counter. Runs after
// the milestone transaction has committed; a failure here is logged and
// dropped rather than surfaced, since the counters are best-effort.
func (s *analyticsService) RecordMilestoneCreated(ctx context.Context, projectID uuid.UUID) {
	if err := s.EnsureAnalytics(ctx, nil, projectID); err != nil {
		s.log.Warn("Ensure analytics before milestone count bump failed", "projectID", projectID, "error", err)
		return
	}
	if err := s.analyticsRepo.IncrementMilestoneCount(ctx, nil, projectID, time.Now().UTC()); err != nil {
		s.log.Warn("Milestone count bump failed", "projectID", projectID, "error", err)
	}
}

func (s *analyticsService) RecordMilestoneCompleted(ctx context.Context, projectID uuid.UUID) {
	if err := s.EnsureAnalytics(ctx, nil, projectID); err != nil {
		s.log.Warn("Ensure analytics before completed-milestone bump failed", "projectID", projectID, "error", err)
		return
	}
	if err := s.analyticsRepo.IncrementCompletedMilestones(ctx, nil, projectID, time.Now().UTC()); err != nil {
		s.log.Warn("Completed-milestone bump failed", "projectID", projectID, "error", err)
	}
}

// ProjectMetrics derives the completion summary from the authoritative
// milestone rows, not from the advisory counters, so it stays correct even
// when the counters drift.
func (s *analyticsService) ProjectMetrics(ctx context.Context, projectID uuid.UUID) (*types.ProjectMetrics, error) {
	total, err := s.milestoneRepo.CountByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("count milestones: %w", err)
	}
	completed, err := s.milestoneRepo.CountCompletedByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("count completed milestones: %w", err)
	}

	metrics := &types.ProjectMetrics{
		TotalMilestones:     int(total),
		CompletedMilestones: int(completed),
		LastUpdated:         time.Now().UTC(),
	}
	if total > 0 {
		metrics.ProgressPercentage = float64(completed) / float64(total) * 100
	}

	if row, found, err := s.analyticsRepo.GetByProjectID(ctx, nil, projectID); err == nil && found {
		metrics.TimeSpent = row.TimeSpent
		metrics.LastUpdated = row.LastUpdated
	}
	return metrics, nil
}
