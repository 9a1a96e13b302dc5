package service

import (
	"context"
	"log/slog"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
)

type LendingService interface {
	Get(ctx context.Context, id int64) (*models.Lending, error)
	// Lend checks out an available stock without a prior holding
	Lend(ctx context.Context, stockID int64, userID string) (*models.Lending, error)
	// Return deletes the lending and its renewing, then holds the stock for the next
	// reservation. The cascaded holding is returned, and is still returned together with
	// a *ServiceError when notifying its user failed.
	Return(ctx context.Context, lending *models.Lending) (*models.Holding, error)
	// Renew extends the lending once by the renewal period, counted from its due date
	Renew(ctx context.Context, id int64) (*models.Renewing, error)
	IsRenewable(ctx context.Context, id int64) (bool, error)
	ListOverdue(ctx context.Context) ([]models.Lending, error)
}

type lendingService struct {
	lifecycle
}

func NewLendingService(store repository.Store, notifier HoldNotifier, rules Rules, logger *slog.Logger) LendingService {
	return &lendingService{lifecycle{store: store, notifier: notifier, rules: rules, logger: logger}}
}

func (s *lendingService) Get(ctx context.Context, id int64) (*models.Lending, error) {
	lending, err := s.store.Lendings().GetByID(ctx, id)
	return lending, wrap("get lending", err)
}

func (s *lendingService) Lend(ctx context.Context, stockID int64, userID string) (*models.Lending, error) {
	var lending *models.Lending
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		stock, err := tx.Stocks().GetForUpdate(ctx, stockID)
		if err != nil {
			return err
		}
		if _, err := tx.Users().FindByID(ctx, userID); err != nil {
			return err
		}
		if !stock.IsLendable() {
			return ErrStockNotLendable
		}

		lending = &models.Lending{
			StockID: stockID,
			UserID:  userID,
			DueDate: s.rules.loanDueDate(),
		}
		return tx.Lendings().Create(ctx, lending)
	})
	if err != nil {
		return nil, wrap("lend stock", err)
	}

	s.logger.Info("stock_lent", "lending_id", lending.ID, "stock_id", stockID, "user_id", userID)
	return lending, nil
}

func (s *lendingService) Return(ctx context.Context, lending *models.Lending) (*models.Holding, error) {
	var next *models.Holding
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Stocks().GetForUpdate(ctx, lending.StockID); err != nil {
			return err
		}
		if err := tx.Lendings().Delete(ctx, lending.ID); err != nil {
			return err
		}

		var err error
		next, err = s.createFromFirstReservation(ctx, tx, lending.StockID)
		return err
	})
	if err != nil {
		return nil, wrap("return lending", err)
	}

	s.logger.Info("lending_returned", "lending_id", lending.ID, "stock_id", lending.StockID)
	s.logCascade(next)
	return next, s.notify(ctx, "return lending", next)
}

func (s *lendingService) Renew(ctx context.Context, id int64) (*models.Renewing, error) {
	var renewing *models.Renewing
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		lending, err := tx.Lendings().GetByID(ctx, id)
		if err != nil {
			return err
		}
		// reservations are read under the stock lock so a concurrent reserve is seen
		stock, err := tx.Stocks().GetForUpdate(ctx, lending.StockID)
		if err != nil {
			return err
		}
		lending.Stock = stock

		if !lending.IsRenewable() {
			return ErrNotRenewable
		}

		renewing = &models.Renewing{
			LendingID: lending.ID,
			DueDate:   s.rules.renewedDueDate(lending.ActualDueDate()),
		}
		return tx.Lendings().CreateRenewing(ctx, renewing)
	})
	if err != nil {
		return nil, wrap("renew lending", err)
	}

	s.logger.Info("lending_renewed", "lending_id", id, "due_date", renewing.DueDate.Format("2006-01-02"))
	return renewing, nil
}

func (s *lendingService) IsRenewable(ctx context.Context, id int64) (bool, error) {
	lending, err := s.store.Lendings().GetByID(ctx, id)
	if err != nil {
		return false, wrap("is lending renewable", err)
	}
	return lending.IsRenewable(), nil
}

func (s *lendingService) ListOverdue(ctx context.Context) ([]models.Lending, error) {
	lendings, err := s.store.Lendings().ListOverdue(ctx, s.rules.Today())
	return lendings, wrap("list overdue lendings", err)
}
