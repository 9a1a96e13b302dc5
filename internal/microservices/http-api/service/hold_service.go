package service

import (
	"context"
	"errors"
	"log/slog"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
)

// HoldService manages holdings: copies set aside for one user until picked up.
//
// Methods that create a holding notify its user after the transaction commits. When that
// notification fails they return the committed holding together with a *ServiceError.
type HoldService interface {
	Get(ctx context.Context, id int64) (*models.Holding, error)
	// CreateFromFirstReservation holds a free stock for the oldest reservation in its
	// queue. Returns nil when nobody is waiting, ErrStockNotHoldable when the stock is
	// lent and FirstReservationHoldingAlreadyExistsError when it is already held.
	CreateFromFirstReservation(ctx context.Context, stockID int64) (*models.Holding, error)
	// Place holds an available stock for userID directly
	Place(ctx context.Context, stockID int64, userID string) (*models.Holding, error)
	// Cancel deletes the holding and passes the stock on to the next reservation.
	// Returns the cascaded holding, if any.
	Cancel(ctx context.Context, holding *models.Holding) (*models.Holding, error)
	// Fulfill lends the held stock to the holding's user
	Fulfill(ctx context.Context, holding *models.Holding) (*models.Lending, error)
	ListExpired(ctx context.Context) ([]models.Holding, error)
	// ExpireOverdue cancels every expired holding and reports how many were cancelled
	ExpireOverdue(ctx context.Context) (int, error)
}

type holdService struct {
	lifecycle
}

func NewHoldService(store repository.Store, notifier HoldNotifier, rules Rules, logger *slog.Logger) HoldService {
	return &holdService{lifecycle{store: store, notifier: notifier, rules: rules, logger: logger}}
}

func (s *holdService) Get(ctx context.Context, id int64) (*models.Holding, error) {
	holding, err := s.store.Holdings().GetByID(ctx, id)
	return holding, wrap("get holding", err)
}

func (s *holdService) CreateFromFirstReservation(ctx context.Context, stockID int64) (*models.Holding, error) {
	var holding *models.Holding
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		stock, err := tx.Stocks().GetForUpdate(ctx, stockID)
		if err != nil {
			return err
		}
		first, err := tx.Reservations().First(ctx, stockID)
		if err != nil || first == nil {
			return err
		}
		// a held stock is left to the holdings unique index
		if stock.IsLent() {
			return ErrStockNotHoldable
		}

		holding, err = s.holdForReservation(ctx, tx, first)
		return err
	})
	if err != nil {
		return nil, wrap("create holding from first reservation", err)
	}

	s.logCascade(holding)
	return holding, s.notify(ctx, "create holding from first reservation", holding)
}

func (s *holdService) Place(ctx context.Context, stockID int64, userID string) (*models.Holding, error) {
	var holding *models.Holding
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		stock, err := tx.Stocks().GetForUpdate(ctx, stockID)
		if err != nil {
			return err
		}
		if _, err := tx.Users().FindByID(ctx, userID); err != nil {
			return err
		}
		if !stock.IsHoldable() {
			return ErrStockNotHoldable
		}

		created := &models.Holding{
			StockID:        stockID,
			UserID:         userID,
			ExpirationDate: s.rules.holdExpirationDate(),
		}
		if err := tx.Holdings().Create(ctx, created); err != nil {
			return err
		}
		holding, err = tx.Holdings().GetByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, wrap("place holding", err)
	}

	s.logger.Info("holding_placed", "holding_id", holding.ID, "stock_id", stockID, "user_id", userID)
	return holding, s.notify(ctx, "place holding", holding)
}

func (s *holdService) Cancel(ctx context.Context, holding *models.Holding) (*models.Holding, error) {
	var next *models.Holding
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Stocks().GetForUpdate(ctx, holding.StockID); err != nil {
			return err
		}
		if err := tx.Holdings().Delete(ctx, holding.ID); err != nil {
			return err
		}

		var err error
		next, err = s.createFromFirstReservation(ctx, tx, holding.StockID)
		return err
	})
	if err != nil {
		return nil, wrap("cancel holding", err)
	}

	s.logger.Info("holding_cancelled", "holding_id", holding.ID, "stock_id", holding.StockID)
	s.logCascade(next)
	return next, s.notify(ctx, "cancel holding", next)
}

func (s *holdService) Fulfill(ctx context.Context, holding *models.Holding) (*models.Lending, error) {
	var lending *models.Lending
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Stocks().GetForUpdate(ctx, holding.StockID); err != nil {
			return err
		}

		// the lending goes first: a stock that is already lent fails here with a
		// DuplicateError before the holding is touched
		lending = &models.Lending{
			StockID: holding.StockID,
			UserID:  holding.UserID,
			DueDate: s.rules.loanDueDate(),
		}
		if err := tx.Lendings().Create(ctx, lending); err != nil {
			return err
		}
		return tx.Holdings().Delete(ctx, holding.ID)
	})
	if err != nil {
		return nil, wrap("fulfill holding", err)
	}

	s.logger.Info("holding_fulfilled",
		"holding_id", holding.ID,
		"lending_id", lending.ID,
		"stock_id", lending.StockID,
		"due_date", lending.DueDate.Format("2006-01-02"))
	return lending, nil
}

func (s *holdService) ListExpired(ctx context.Context) ([]models.Holding, error) {
	holdings, err := s.store.Holdings().ListExpired(ctx, s.rules.Today())
	return holdings, wrap("list expired holdings", err)
}

func (s *holdService) ExpireOverdue(ctx context.Context) (int, error) {
	holdings, err := s.ListExpired(ctx)
	if err != nil {
		return 0, err
	}

	expiry := Expiry{Found: len(holdings)}
	var errs []error
	for i := range holdings {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		next, err := s.Cancel(ctx, &holdings[i])
		expiry.Record(next, err)
		if err != nil {
			errs = append(errs, err)
		}
	}

	s.logger.Info("expired_holdings_swept",
		"found", expiry.Found,
		"expired", expiry.Expired,
		"cascaded", expiry.Cascaded,
		"failed", expiry.Failed,
		"notify_failed", expiry.NotifyFailed)
	return expiry.Expired, errors.Join(errs...)
}
