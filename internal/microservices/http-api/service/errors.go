package service

import (
	"errors"
	"fmt"

	"lendinghub/internal/microservices/http-api/repository"
)

// Copy state violations. These are returned as is, never wrapped in ServiceError.
var (
	ErrStockNotHoldable   = errors.New("stock is lent or held and cannot be held")
	ErrStockNotLendable   = errors.New("stock is lent or held and cannot be lent")
	ErrStockNotReservable = errors.New("stock is available, hold or lend it instead of reserving")
	ErrAlreadyHasStock    = errors.New("user already holds or borrows this stock")
	ErrNotRenewable       = errors.New("lending is already renewed or the stock is reserved")
)

// ServiceError wraps persistence (repository.QueryError) and notification failures at
// the service boundary. A notification failure comes together with the committed
// result of the operation.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// FirstReservationHoldingAlreadyExistsError is returned when cascading a freed stock to
// its first reservation collides with a holding written concurrently. It wraps the
// repository.DuplicateError.
type FirstReservationHoldingAlreadyExistsError struct {
	StockID int64
	Err     error
}

func (e *FirstReservationHoldingAlreadyExistsError) Error() string {
	return fmt.Sprintf("holding for the first reservation of stock %d already exists: %v", e.StockID, e.Err)
}

func (e *FirstReservationHoldingAlreadyExistsError) Unwrap() error {
	return e.Err
}

var stateErrors = []error{
	ErrStockNotHoldable,
	ErrStockNotLendable,
	ErrStockNotReservable,
	ErrAlreadyHasStock,
	ErrNotRenewable,
}

// wrap converts an error crossing the service boundary. Duplicates and state violations
// keep their identity, everything else becomes a ServiceError.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var dup *repository.DuplicateError
	var se *ServiceError
	if errors.As(err, &dup) || errors.As(err, &se) {
		return err
	}
	for _, stateErr := range stateErrors {
		if errors.Is(err, stateErr) {
			return err
		}
	}
	return &ServiceError{Op: op, Err: err}
}
