package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/repos"
	"github.com/yungbote/insightpath-backend/internal/types"
)

type feedbackFixture struct {
	svc           FeedbackService
	notifications NotificationService
	project       *types.Project
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()

	projectRepo := repos.NewProjectRepo(db, log)
	notifications := NewNotificationService(db, log, repos.NewNotificationRepo(db, log), nil)
	svc := NewFeedbackService(db, log, repos.NewFeedbackRepo(db, log), projectRepo, notifications, nil)

	project, err := projectRepo.Create(context.Background(), nil, &types.Project{
		Title:       "Weather App",
		Type:        types.ProjectTypeFrontend,
		StudentID:   uuid.New(),
		Status:      types.ProjectStatusInProgress,
		LastUpdated: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return &feedbackFixture{svc: svc, notifications: notifications, project: project}
}

func TestFeedbackNotifiesOwnerOnly(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()
	teacherID := uuid.New()

	fb, err := f.svc.Add(ctx, f.project.ID, teacherID, types.RoleTeacher, FeedbackInput{
		Content: "Consider extracting the fetch logic.",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if fb.AuthorID != teacherID || fb.AuthorRole != types.RoleTeacher {
		t.Fatalf("author fields = %s/%s", fb.AuthorID, fb.AuthorRole)
	}

	unread, err := f.notifications.Unread(ctx, f.project.StudentID)
	if err != nil {
		t.Fatalf("Unread: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("owner unread = %d, want 1", len(unread))
	}
}

func TestFeedbackSelfCommentSkipsNotification(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Add(ctx, f.project.ID, f.project.StudentID, types.RoleStudent, FeedbackInput{
		Content: "Note to self: fix the loading state.",
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	unread, err := f.notifications.Unread(ctx, f.project.StudentID)
	if err != nil {
		t.Fatalf("Unread: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("self-comment produced %d notifications", len(unread))
	}
}

func TestFeedbackThreading(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	parent, err := f.svc.Add(ctx, f.project.ID, uuid.New(), types.RoleTeacher, FeedbackInput{
		Content: "What about error handling?",
	})
	if err != nil {
		t.Fatalf("Add parent: %v", err)
	}
	reply, err := f.svc.Add(ctx, f.project.ID, f.project.StudentID, types.RoleStudent, FeedbackInput{
		Content: "Added a retry with backoff.",
		ParentID: &parent.ID,
	})
	if err != nil {
		t.Fatalf("Add reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != parent.ID {
		t.Fatalf("ParentID = %v, want %s", reply.ParentID, parent.ID)
	}

	all, err := f.svc.ListForProject(ctx, f.project.ID)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
}
