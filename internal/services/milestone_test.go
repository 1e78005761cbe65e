package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type milestoneFixture struct {
	db          *gorm.DB
	svc         MilestoneService
	analytics   AnalyticsService
	projectRepo repos.ProjectRepo
	project     *types.Project
}

func newMilestoneFixture(t *testing.T) *milestoneFixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	milestoneRepo := repos.NewMilestoneRepo(db, log)
	projectRepo := repos.NewProjectRepo(db, log)
	analyticsRepo := repos.NewProjectAnalyticsRepo(db, log)
	notificationRepo := repos.NewNotificationRepo(db, log)

	analytics := NewAnalyticsService(db, log, analyticsRepo, milestoneRepo)
	notifications := NewNotificationService(db, log, notificationRepo, nil)
	svc := NewMilestoneService(db, log, milestoneRepo, projectRepo, analytics, notifications, nil)

	project, err := projectRepo.Create(context.Background(), nil, &types.Project{
		Title:       "Portfolio Site",
		Type:        types.ProjectTypeFrontend,
		StudentID:   uuid.New(),
		Status:      types.ProjectStatusPlanning,
		LastUpdated: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	return &milestoneFixture{
		db:          db,
		svc:         svc,
		analytics:   analytics,
		projectRepo: projectRepo,
		project:     project,
	}
}

func TestMilestoneCreateAssignsSequentialOrder(t *testing.T) {
	f := newMilestoneFixture(t)
	ctx := context.Background()

	titles := []string{"Wireframes", "Layout", "Deploy"}
	for i, title := range titles {
		m, err := f.svc.Create(ctx, f.project.ID, MilestoneCreateInput{Title: title})
		if err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
		if m.SortOrder != i+1 {
			t.Fatalf("SortOrder for %q = %d, want %d", title, m.SortOrder, i+1)
		}
		if m.Status != types.MilestoneStatusPending {
			t.Fatalf("Status = %q, want pending", m.Status)
		}
	}

	project, err := f.projectRepo.GetByID(ctx, nil, f.project.ID)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if project.TotalMilestones != 3 {
		t.Fatalf("TotalMilestones = %d, want 3", project.TotalMilestones)
	}

	analytics, err := f.analytics.Get(ctx, f.project.ID)
	if err != nil {
		t.Fatalf("Get analytics: %v", err)
	}
	if analytics.MilestoneCount != 3 {
		t.Fatalf("MilestoneCount = %d, want 3", analytics.MilestoneCount)
	}
}

func TestMilestoneCompleteBumpsCounters(t *testing.T) {
	f := newMilestoneFixture(t)
	ctx := context.Background()

	m, err := f.svc.Create(ctx, f.project.ID, MilestoneCreateInput{Title: "Ship it"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	completed := types.MilestoneStatusCompleted
	updated, err := f.svc.Update(ctx, m.ID, MilestoneUpdateInput{Status: &completed})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != types.MilestoneStatusCompleted {
		t.Fatalf("Status = %q, want completed", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Fatal("CompletedAt not set on completion")
	}

	project, err := f.projectRepo.GetByID(ctx, nil, f.project.ID)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if project.CurrentMilestone != 1 {
		t.Fatalf("CurrentMilestone = %d, want 1", project.CurrentMilestone)
	}

	analytics, err := f.analytics.Get(ctx, f.project.ID)
	if err != nil {
		t.Fatalf("Get analytics: %v", err)
	}
	if analytics.CompletedMilestones != 1 {
		t.Fatalf("CompletedMilestones = %d, want 1", analytics.CompletedMilestones)
	}

	// Completing an already-completed milestone must not double-count.
	if _, err := f.svc.Update(ctx, m.ID, MilestoneUpdateInput{Status: &completed}); err != nil {
		t.Fatalf("second Update: %v", err)
	}
	project, err = f.projectRepo.GetByID(ctx, nil, f.project.ID)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if project.CurrentMilestone != 1 {
		t.Fatalf("CurrentMilestone after redundant completion = %d, want 1", project.CurrentMilestone)
	}
}

func TestMilestoneUpdateRejectsUnknownStatus(t *testing.T) {
	f := newMilestoneFixture(t)
	ctx := context.Background()

	m, err := f.svc.Create(ctx, f.project.ID, MilestoneCreateInput{Title: "Draft"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	bogus := "done-ish"
	if _, err := f.svc.Update(ctx, m.ID, MilestoneUpdateInput{Status: &bogus}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestMilestoneListSortsByOrder(t *testing.T) {
	f := newMilestoneFixture(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := f.svc.Create(ctx, f.project.ID, MilestoneCreateInput{Title: title}); err != nil {
			t.Fatalf("Create %q: %v", title, err)
		}
	}

	rows, err := f.svc.ListByProject(ctx, f.project.ID)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	for i, row := range rows {
		if row.SortOrder != i+1 {
			t.Fatalf("rows[%d].SortOrder = %d, want %d", i, row.SortOrder, i+1)
		}
	}
}
