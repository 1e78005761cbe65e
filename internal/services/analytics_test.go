package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

func newAnalyticsService(t *testing.T) AnalyticsService {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	return NewAnalyticsService(db, log,
		repos.NewProjectAnalyticsRepo(db, log),
		repos.NewMilestoneRepo(db, log))
}

func TestEnsureAnalyticsIsIdempotent(t *testing.T) {
	svc := newAnalyticsService(t)
	ctx := context.Background()
	projectID := uuid.New()

	if err := svc.EnsureAnalytics(ctx, nil, projectID); err != nil {
		t.Fatalf("first EnsureAnalytics: %v", err)
	}
	first, err := svc.Get(ctx, projectID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	ten := 10
	if _, err := svc.Update(ctx, projectID, AnalyticsUpdate{TimeSpent: &ten}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.EnsureAnalytics(ctx, nil, projectID); err != nil {
		t.Fatalf("second EnsureAnalytics: %v", err)
	}

	second, err := svc.Get(ctx, projectID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("EnsureAnalytics replaced the row: %s vs %s", second.ID, first.ID)
	}
	if second.TimeSpent != 10 {
		t.Fatalf("EnsureAnalytics clobbered TimeSpent: %d", second.TimeSpent)
	}
}

func TestAnalyticsGetLazilyInitializes(t *testing.T) {
	svc := newAnalyticsService(t)
	row, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if row.ComplexityScore != 0 || row.LinesOfCode != 0 || row.TimeSpent != 0 {
		t.Fatalf("expected zero-valued row, got %+v", row)
	}
}

func TestAnalyticsUpdateIsPartial(t *testing.T) {
	svc := newAnalyticsService(t)
	ctx := context.Background()
	projectID := uuid.New()

	loc, score := 420, 7
	if _, err := svc.Update(ctx, projectID, AnalyticsUpdate{LinesOfCode: &loc, ComplexityScore: &score}); err != nil {
		t.Fatalf("first Update: %v", err)
	}

	spent := 90
	row, err := svc.Update(ctx, projectID, AnalyticsUpdate{
		TimeSpent:         &spent,
		LanguageBreakdown: map[string]int{"go": 80, "sql": 20},
	})
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if row.LinesOfCode != 420 || row.ComplexityScore != 7 {
		t.Fatalf("partial update touched untargeted fields: %+v", row)
	}
	if row.TimeSpent != 90 {
		t.Fatalf("TimeSpent = %d, want 90", row.TimeSpent)
	}
	breakdown := map[string]int{}
	if err := json.Unmarshal(row.LanguageBreakdown, &breakdown); err != nil {
		t.Fatalf("decode language breakdown: %v", err)
	}
	if breakdown["go"] != 80 || breakdown["sql"] != 20 {
		t.Fatalf("language breakdown = %v", breakdown)
	}
}

func TestProjectMetricsDerivesFromMilestoneRows(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()
	milestoneRepo := repos.NewMilestoneRepo(db, log)
	svc := NewAnalyticsService(db, log, repos.NewProjectAnalyticsRepo(db, log), milestoneRepo)
	ctx := context.Background()
	projectID := uuid.New()

	now := time.Now().UTC()
	for i, status := range []string{
		types.MilestoneStatusCompleted,
		types.MilestoneStatusCompleted,
		types.MilestoneStatusPending,
		types.MilestoneStatusInProgress,
	} {
		row := &types.Milestone{
			ProjectID: projectID,
			Title:     "m",
			Status:    status,
			SortOrder: i + 1,
		}
		if status == types.MilestoneStatusCompleted {
			row.CompletedAt = &now
		}
		if _, err := milestoneRepo.Create(ctx, nil, row); err != nil {
			t.Fatalf("seed milestone: %v", err)
		}
	}

	metrics, err := svc.ProjectMetrics(ctx, projectID)
	if err != nil {
		t.Fatalf("ProjectMetrics: %v", err)
	}
	if metrics.TotalMilestones != 4 || metrics.CompletedMilestones != 2 {
		t.Fatalf("counts = %d/%d, want 2/4", metrics.CompletedMilestones, metrics.TotalMilestones)
	}
	if metrics.ProgressPercentage != 50 {
		t.Fatalf("ProgressPercentage = %v, want 50", metrics.ProgressPercentage)
	}
}

func TestProjectMetricsEmptyProject(t *testing.T) {
	svc := newAnalyticsService(t)
	metrics, err := svc.ProjectMetrics(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ProjectMetrics: %v", err)
	}
	if metrics.TotalMilestones != 0 || metrics.ProgressPercentage != 0 {
		t.Fatalf("expected zero metrics, got %+v", metrics)
	}
}
