package repository

import (
	"context"

	"lendinghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return translate("create notification", "notification", r.db.WithContext(ctx).Create(notification).Error)
}

func (r *notificationRepository) GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND read = ?", userID, false).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, translate("unread notifications", "notification", err)
}

// MarkAsRead only touches the notification when it belongs to userID and is unread
func (r *notificationRepository) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read = ?", notificationID, userID, false).
		Update("read", true)
	if result.Error != nil {
		return translate("mark notification read", "notification", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("mark notification read", "notification")
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	return translate("mark all notifications read", "notification", r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Update("read", true).Error)
}
