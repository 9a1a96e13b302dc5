package service

import (
	"context"
	"log/slog"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
)

// HoldNotifier tells a user that a stock is now held for them. The holding passed in has
// Stock.Book and User loaded.
type HoldNotifier interface {
	NotifyHoldCreated(ctx context.Context, holding *models.Holding) error
}

// lifecycle is the part shared by the hold and lending services: moving a freed stock on
// to its reservation queue and telling the new holder once the data is committed.
type lifecycle struct {
	store    repository.Store
	notifier HoldNotifier
	rules    Rules
	logger   *slog.Logger
}

// createFromFirstReservation turns the oldest reservation of the stock into a holding and
// deletes the reservation. It runs inside the caller's transaction and returns nil when
// the queue is empty.
func (l *lifecycle) createFromFirstReservation(ctx context.Context, tx repository.Store, stockID int64) (*models.Holding, error) {
	first, err := tx.Reservations().First(ctx, stockID)
	if err != nil || first == nil {
		return nil, err
	}
	return l.holdForReservation(ctx, tx, first)
}

// holdForReservation turns reservation into a holding and consumes it. A stock that is
// already held fails on the holdings unique index.
func (l *lifecycle) holdForReservation(ctx context.Context, tx repository.Store, reservation *models.Reservation) (*models.Holding, error) {
	holding := &models.Holding{
		StockID:        reservation.StockID,
		UserID:         reservation.UserID,
		ExpirationDate: l.rules.holdExpirationDate(),
	}
	if err := tx.Holdings().Create(ctx, holding); err != nil {
		if repository.IsDuplicate(err) {
			return nil, &FirstReservationHoldingAlreadyExistsError{StockID: reservation.StockID, Err: err}
		}
		return nil, err
	}
	if err := tx.Reservations().Delete(ctx, reservation.ID); err != nil {
		return nil, err
	}

	// reload with the book and the user for the notification
	return tx.Holdings().GetByID(ctx, holding.ID)
}

// notify runs after commit. A failure is logged and returned, the committed data stays.
func (l *lifecycle) notify(ctx context.Context, op string, holding *models.Holding) error {
	if holding == nil || l.notifier == nil {
		return nil
	}
	if err := l.notifier.NotifyHoldCreated(ctx, holding); err != nil {
		l.logger.Error("notification_failed",
			"op", op,
			"holding_id", holding.ID,
			"stock_id", holding.StockID,
			"user_id", holding.UserID,
			"error", err)
		return &ServiceError{Op: op, Err: err}
	}
	return nil
}

func (l *lifecycle) logCascade(holding *models.Holding) {
	if holding == nil {
		return
	}
	l.logger.Info("holding_cascaded",
		"holding_id", holding.ID,
		"stock_id", holding.StockID,
		"user_id", holding.UserID,
		"expiration_date", holding.ExpirationDate.Format("2006-01-02"))
}
