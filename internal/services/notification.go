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

type NotificationService interface {
	// Notify records a notification and pushes it to the recipient's SSE
	// channel. Fire-and-forget: failures are logged, never returned, so a
	// broken notification write cannot fail the workflow that triggered it.
	Notify(ctx context.Context, userID uuid.UUID, notifType, title, message, link string)
	Unread(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
	Recent(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	// MarkAllRead flips the read flag on exactly the ids the caller passes,
	// scoped to the caller. Notifications created after the caller's last
	// fetch stay unread.
	MarkAllRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	emitter          SSEEmitter
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, notificationRepo repos.NotificationRepo, emitter SSEEmitter) NotificationService {
	return &notificationService{
		db:               db,
		log:              log.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
		emitter:          emitter,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, notifType, title, message, link string) {
	if userID == uuid.Nil {
		s.log.Warn("Dropping notification for nil user", "type", notifType, "title", title)
		return
	}

	row, err := s.notificationRepo.Create(ctx, nil, &types.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Link:    link,
	})
	if err != nil {
		s.log.Error("Notification write failed", "userID", userID, "type", notifType, "error", err)
		return
	}

	if s.emitter != nil {
		s.emitter.Emit(ctx, sse.SSEMessage{
			Channel: NotificationChannel(userID),
			Event:   sse.SSEEventNotificationCreated,
			Data:    row,
		})
	}
}

// NotificationChannel is the per-user SSE channel name notifications are
// pushed on.
func NotificationChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func (s *notificationService) Unread(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	rows, err := s.notificationRepo.GetUnreadByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return rows, nil
}

func (s *notificationService) Recent(ctx context.Context, userID uuid.UUID) ([]*types.Notification, error) {
	rows, err := s.notificationRepo.GetRecentByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list recent notifications: %w", err)
	}
	return rows, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.notificationRepo.MarkReadByIDs(ctx, nil, userID, []uuid.UUID{notificationID}); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.notificationRepo.MarkReadByIDs(ctx, nil, userID, ids); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}
