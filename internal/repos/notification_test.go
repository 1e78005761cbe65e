package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

func seedNotification(t *testing.T, repo NotificationRepo, userID uuid.UUID, title string) *types.Notification {
	t.Helper()
	row, err := repo.Create(context.Background(), nil, &types.Notification{
		UserID:  userID,
		Type:    types.NotificationTypeSystem,
		Title:   title,
		Message: "m",
	})
	if err != nil {
		t.Fatalf("Create notification: %v", err)
	}
	return row
}

func TestMarkReadByIDsOnlyTouchesGivenIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepo(db, logger.NewNop())
	ctx := context.Background()

	userID := uuid.New()
	a := seedNotification(t, repo, userID, "a")
	b := seedNotification(t, repo, userID, "b")
	c := seedNotification(t, repo, userID, "c")

	// Caller only knows about a and b; c arrived after their last fetch.
	if err := repo.MarkReadByIDs(ctx, nil, userID, []uuid.UUID{a.ID, b.ID}); err != nil {
		t.Fatalf("MarkReadByIDs: %v", err)
	}

	unread, err := repo.GetUnreadByUserID(ctx, nil, userID)
	if err != nil {
		t.Fatalf("GetUnreadByUserID: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread, got %d", len(unread))
	}
	if unread[0].ID != c.ID {
		t.Fatalf("expected %s to stay unread, got %s", c.ID, unread[0].ID)
	}
}

func TestMarkReadByIDsScopedToUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepo(db, logger.NewNop())
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	theirs := seedNotification(t, repo, bob, "bob's")

	// Alice passing Bob's notification id must not flip Bob's row.
	if err := repo.MarkReadByIDs(ctx, nil, alice, []uuid.UUID{theirs.ID}); err != nil {
		t.Fatalf("MarkReadByIDs: %v", err)
	}

	unread, err := repo.GetUnreadByUserID(ctx, nil, bob)
	if err != nil {
		t.Fatalf("GetUnreadByUserID: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("bob's notification should still be unread, got %d unread", len(unread))
	}
}

func TestMarkReadByIDsEmptySliceIsNoop(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepo(db, logger.NewNop())

	userID := uuid.New()
	seedNotification(t, repo, userID, "a")

	if err := repo.MarkReadByIDs(context.Background(), nil, userID, nil); err != nil {
		t.Fatalf("MarkReadByIDs with empty ids: %v", err)
	}

	unread, err := repo.GetUnreadByUserID(context.Background(), nil, userID)
	if err != nil {
		t.Fatalf("GetUnreadByUserID: %v", err)
	}
	if len(unread) != 1 {
		t.Fatalf("expected 1 unread, got %d", len(unread))
	}
}
