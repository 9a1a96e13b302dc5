package service

import (
	"context"
	"log/slog"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
)

// ReservationService manages the FIFO waiting list of lent and held stocks
type ReservationService interface {
	// Reserve queues userID for a stock that is lent or held
	Reserve(ctx context.Context, stockID int64, userID string) (*models.Reservation, error)
	Get(ctx context.Context, id int64) (*models.Reservation, error)
	// Order is the 1-based position of the reservation in its stock's queue
	Order(ctx context.Context, reservation *models.Reservation) (int64, error)
	ListByStock(ctx context.Context, stockID int64) ([]models.Reservation, error)
	Cancel(ctx context.Context, id int64) error
}

type reservationService struct {
	store  repository.Store
	rules  Rules
	logger *slog.Logger
}

func NewReservationService(store repository.Store, rules Rules, logger *slog.Logger) ReservationService {
	return &reservationService{store: store, rules: rules, logger: logger}
}

func (s *reservationService) Reserve(ctx context.Context, stockID int64, userID string) (*models.Reservation, error) {
	var reservation *models.Reservation
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		stock, err := tx.Stocks().GetForUpdate(ctx, stockID)
		if err != nil {
			return err
		}
		if _, err := tx.Users().FindByID(ctx, userID); err != nil {
			return err
		}
		if !stock.IsReservable() {
			return ErrStockNotReservable
		}
		if (stock.IsLent() && stock.Lending.UserID == userID) ||
			(stock.IsHeld() && stock.Holding.UserID == userID) {
			return ErrAlreadyHasStock
		}

		// queue order is creation time, set here so it follows the service clock
		reservation = &models.Reservation{
			StockID:   stockID,
			UserID:    userID,
			CreatedAt: s.rules.now().UTC(),
		}
		return tx.Reservations().Create(ctx, reservation)
	})
	if err != nil {
		return nil, wrap("reserve stock", err)
	}

	s.logger.Info("stock_reserved", "reservation_id", reservation.ID, "stock_id", stockID, "user_id", userID)
	return reservation, nil
}

func (s *reservationService) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	reservation, err := s.store.Reservations().GetByID(ctx, id)
	return reservation, wrap("get reservation", err)
}

func (s *reservationService) Order(ctx context.Context, reservation *models.Reservation) (int64, error) {
	order, err := s.store.Reservations().Order(ctx, reservation)
	return order, wrap("reservation order", err)
}

func (s *reservationService) ListByStock(ctx context.Context, stockID int64) ([]models.Reservation, error) {
	reservations, err := s.store.Reservations().ListByStock(ctx, stockID)
	return reservations, wrap("list reservations", err)
}

func (s *reservationService) Cancel(ctx context.Context, id int64) error {
	if err := s.store.Reservations().Delete(ctx, id); err != nil {
		return wrap("cancel reservation", err)
	}
	s.logger.Info("reservation_cancelled", "reservation_id", id)
	return nil
}
