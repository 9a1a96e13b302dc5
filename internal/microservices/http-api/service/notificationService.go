package service

import (
	"context"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
)

// NotificationService serves the in-app copies of hold notifications
type NotificationService interface {
	GetUnread(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications, err := s.repo.GetUnreadByUser(ctx, userID)
	return notifications, wrap("unread notifications", err)
}

// MarkAsRead fails with repository.ErrNotFound when the notification is not the user's
// or was already read
func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	return wrap("mark notification read", s.repo.MarkAsRead(ctx, userID, notificationID))
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return wrap("mark all notifications read", s.repo.MarkAllAsRead(ctx, userID))
}
