package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/insightpath-backend/internal/logger"
	"github.com/yungbote/insightpath-backend/internal/types"
)

const (
	unreadNotificationLimit = 10
	recentNotificationLimit = 50
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Notification) (*types.Notification, error)
	GetUnreadByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error)
	GetRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	// MarkReadByIDs flips only the given ids (scoped to the user) in one
	// batch; notifications created after the caller fetched its set are
	// deliberately left untouched.
	MarkReadByIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ids []uuid.UUID) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Notification) (*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *notificationRepo) GetUnreadByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Notification
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND read = ?", userID, false).
		Order("created_at DESC").
		Limit(unreadNotificationLimit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) GetRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Notification
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentNotificationLimit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

func (r *notificationRepo) MarkReadByIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("read", true).Error
}
