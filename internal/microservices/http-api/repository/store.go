package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle. Inside Transaction
// every repository it hands out is bound to the same transaction.
type Store interface {
	Users() UserRepository
	Catalog() CatalogRepository
	Stocks() StockRepository
	Reservations() ReservationRepository
	Holdings() HoldingRepository
	Lendings() LendingRepository
	Notifications() NotificationRepository

	// Transaction commits when fn returns nil and rolls back when it returns an error
	// or panics. Nested calls use savepoints.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository { return NewUserRepository(s.db) }
func (s *gormStore) Catalog() CatalogRepository { return NewCatalogRepository(s.db) }
func (s *gormStore) Stocks() StockRepository { return NewStockRepository(s.db) }
func (s *gormStore) Reservations() ReservationRepository { return NewReservationRepository(s.db) }
func (s *gormStore) Holdings() HoldingRepository { return NewHoldingRepository(s.db) }
func (s *gormStore) Lendings() LendingRepository { return NewLendingRepository(s.db) }
func (s *gormStore) Notifications() NotificationRepository { return NewNotificationRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&gormStore{db: tx})
		return fnErr
	})
	if err != nil && fnErr == nil {
		// begin and commit failures arrive untranslated
		return translate("transaction", "transaction", err)
	}
	return err
}
