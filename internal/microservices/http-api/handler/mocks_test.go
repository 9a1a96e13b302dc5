package handler

import (
	"context"

	"lendinghub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/mock"
)

// MockStockService mocks the StockService interface
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) Get(ctx context.Context, id int64) (*models.Stock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stock), args.Error(1)
}

func (m *MockStockService) ListByBook(ctx context.Context, bookID int64) ([]models.Stock, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Stock), args.Error(1)
}

// MockHoldService mocks the HoldService interface
type MockHoldService struct {
	mock.Mock
}

func (m *MockHoldService) holding(args mock.Arguments) (*models.Holding, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Holding), args.Error(1)
}

func (m *MockHoldService) Get(ctx context.Context, id int64) (*models.Holding, error) {
	return m.holding(m.Called(ctx, id))
}

func (m *MockHoldService) CreateFromFirstReservation(ctx context.Context, stockID int64) (*models.Holding, error) {
	return m.holding(m.Called(ctx, stockID))
}

func (m *MockHoldService) Place(ctx context.Context, stockID int64, userID string) (*models.Holding, error) {
	return m.holding(m.Called(ctx, stockID, userID))
}

func (m *MockHoldService) Cancel(ctx context.Context, holding *models.Holding) (*models.Holding, error) {
	return m.holding(m.Called(ctx, holding))
}

func (m *MockHoldService) Fulfill(ctx context.Context, holding *models.Holding) (*models.Lending, error) {
	args := m.Called(ctx, holding)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lending), args.Error(1)
}

func (m *MockHoldService) ListExpired(ctx context.Context) ([]models.Holding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Holding), args.Error(1)
}

func (m *MockHoldService) ExpireOverdue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockLendingService mocks the LendingService interface
type MockLendingService struct {
	mock.Mock
}

func (m *MockLendingService) lending(args mock.Arguments) (*models.Lending, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lending), args.Error(1)
}

func (m *MockLendingService) Get(ctx context.Context, id int64) (*models.Lending, error) {
	return m.lending(m.Called(ctx, id))
}

func (m *MockLendingService) Lend(ctx context.Context, stockID int64, userID string) (*models.Lending, error) {
	return m.lending(m.Called(ctx, stockID, userID))
}

func (m *MockLendingService) Return(ctx context.Context, lending *models.Lending) (*models.Holding, error) {
	args := m.Called(ctx, lending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Holding), args.Error(1)
}

func (m *MockLendingService) Renew(ctx context.Context, id int64) (*models.Renewing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Renewing), args.Error(1)
}

func (m *MockLendingService) IsRenewable(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockLendingService) ListOverdue(ctx context.Context) ([]models.Lending, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lending), args.Error(1)
}

// MockReservationService mocks the ReservationService interface
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Reserve(ctx context.Context, stockID int64, userID string) (*models.Reservation, error) {
	args := m.Called(ctx, stockID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservationService) Order(ctx context.Context, reservation *models.Reservation) (int64, error) {
	args := m.Called(ctx, reservation)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationService) ListByStock(ctx context.Context, stockID int64) ([]models.Reservation, error) {
	args := m.Called(ctx, stockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reservation), args.Error(1)
}

func (m *MockReservationService) Cancel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotificationService mocks the NotificationService interface
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
