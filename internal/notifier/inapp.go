package notifier

import (
	"context"
	"fmt"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
)

// InApp stores the notification so the API can list it as unread
type InApp struct {
	repo repository.NotificationRepository
}

func NewInApp(repo repository.NotificationRepository) *InApp {
	return &InApp{repo: repo}
}

func (n *InApp) NotifyHoldCreated(ctx context.Context, holding *models.Holding) error {
	notification := &models.Notification{
		UserID:    holding.UserID,
		Type:      models.NotificationHoldCreated,
		StockID:   holding.StockID,
		HoldingID: holding.ID,
		Title:     "Your reserved book is on hold",
		Message:   fmt.Sprintf("%s is on hold for you until %s.", bookTitle(holding), expiration(holding)),
	}
	if err := n.repo.Create(ctx, notification); err != nil {
		return &NotificationError{Channel: "in-app", HoldingID: holding.ID, Err: err}
	}
	return nil
}
