package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

func newProjectFixture(t *testing.T) (ProjectService, AnalyticsService) {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	milestoneRepo := repos.NewMilestoneRepo(db, log)
	analyticsRepo := repos.NewProjectAnalyticsRepo(db, log)
	notificationRepo := repos.NewNotificationRepo(db, log)

	analytics := NewAnalyticsService(db, log, analyticsRepo, milestoneRepo)
	notifications := NewNotificationService(db, log, notificationRepo, nil)
	svc := NewProjectService(db, log, repos.NewProjectRepo(db, log), analytics, notifications, nil)
	return svc, analytics
}

func TestProjectCreateDefaultsAndNormalizes(t *testing.T) {
	svc, _ := newProjectFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProjectCreateInput{
		Title:     "Chat App",
		Type:      types.ProjectTypeFullStack,
		StudentID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != types.ProjectStatusPlanning {
		t.Fatalf("default status = %q, want planning", p.Status)
	}

	p2, err := svc.Create(ctx, ProjectCreateInput{
		Title:     "Chat App",
		Type:      types.ProjectTypeBackend,
		StudentID: uuid.New(),
		Status:    "In Progress",
	})
	if err != nil {
		t.Fatalf("Create with display status: %v", err)
	}
	if p2.Status != types.ProjectStatusInProgress {
		t.Fatalf("normalized status = %q, want in_progress", p2.Status)
	}
}

func TestProjectCreateValidates(t *testing.T) {
	svc, _ := newProjectFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ProjectCreateInput
	}{
		{"empty title", ProjectCreateInput{Type: types.ProjectTypeFrontend, StudentID: uuid.New()}},
		{"bad type", ProjectCreateInput{Title: "x", Type: "Mobile", StudentID: uuid.New()}},
		{"nil student", ProjectCreateInput{Title: "x", Type: types.ProjectTypeFrontend}},
		{"bad status", ProjectCreateInput{Title: "x", Type: types.ProjectTypeFrontend, StudentID: uuid.New(), Status: "abandoned"}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.input); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestProjectCreateSeedsAnalytics(t *testing.T) {
	svc, analytics := newProjectFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProjectCreateInput{
		Title:     "API Gateway",
		Type:      types.ProjectTypeBackend,
		StudentID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	row, err := analytics.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get analytics: %v", err)
	}
	if row.ProjectID != p.ID {
		t.Fatalf("analytics ProjectID = %s, want %s", row.ProjectID, p.ID)
	}
}

func TestProjectUpdatePartialAndStamped(t *testing.T) {
	svc, _ := newProjectFixture(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProjectCreateInput{
		Title:     "CLI Tool",
		Type:      types.ProjectTypeBackend,
		StudentID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := "completed"
	progress := 100
	updated, err := svc.Update(ctx, p.ID, ProjectUpdateInput{Status: &status, Progress: &progress})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != types.ProjectStatusCompleted || updated.Progress != 100 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.Title != "CLI Tool" {
		t.Fatalf("untargeted field changed: %q", updated.Title)
	}
	if !updated.LastUpdated.After(p.LastUpdated) {
		t.Fatalf("LastUpdated not advanced: %v vs %v", updated.LastUpdated, p.LastUpdated)
	}

	bad := 101
	if _, err := svc.Update(ctx, p.ID, ProjectUpdateInput{Progress: &bad}); err == nil {
		t.Fatal("expected error for progress > 100")
	}
}

func TestProjectProgress(t *testing.T) {
	cases := []struct {
		name    string
		current int
		total   int
		want    int
	}{
		{"no milestones", 0, 0, 0},
		{"none done", 0, 4, 0},
		{"halfway", 2, 4, 50},
		{"all done", 4, 4, 100},
		{"overcounted clamps", 5, 4, 100},
		{"thirds truncate", 1, 3, 33},
	}
	for _, tc := range cases {
		got := ProjectProgress(&types.Project{CurrentMilestone: tc.current, TotalMilestones: tc.total})
		if got != tc.want {
			t.Fatalf("%s: ProjectProgress = %d, want %d", tc.name, got, tc.want)
		}
	}
	if ProjectProgress(nil) != 0 {
		t.Fatal("nil project should report 0")
	}
}
