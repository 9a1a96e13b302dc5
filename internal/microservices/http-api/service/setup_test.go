package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"lendinghub/database"
	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockHoldNotifier mocks the HoldNotifier interface
type MockHoldNotifier struct {
	mock.Mock
}

func (m *MockHoldNotifier) NotifyHoldCreated(ctx context.Context, holding *models.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

// stepClock starts at a fixed instant and moves one second per reading, so reservations
// made in sequence get strictly increasing creation times
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// all tests run on 2 March 2026 in UTC
var testStart = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	ctx      context.Context
	store    repository.Store
	notifier *MockHoldNotifier
	rules    Rules
	logger   *slog.Logger

	holds        HoldService
	lendings     LendingService
	reservations ReservationService

	book    *models.Book
	library *models.Library
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { database.Close(db) })

	clock := &stepClock{now: testStart}
	env := &testEnv{
		ctx:      context.Background(),
		store:    repository.NewStore(db),
		notifier: &MockHoldNotifier{},
		rules: Rules{
			LoanPeriod:      14 * 24 * time.Hour,
			RenewalPeriod:   14 * 24 * time.Hour,
			HoldGracePeriod: 7 * 24 * time.Hour,
			Location:        time.UTC,
			Clock:           clock.Now,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	env.holds = NewHoldService(env.store, env.notifier, env.rules, env.logger)
	env.lendings = NewLendingService(env.store, env.notifier, env.rules, env.logger)
	env.reservations = NewReservationService(env.store, env.rules, env.logger)

	env.book = &models.Book{Title: "The Go Programming Language"}
	require.NoError(t, env.store.Catalog().CreateBook(env.ctx, env.book))
	env.library = &models.Library{Name: "Central", Address: "1 Main St"}
	require.NoError(t, env.store.Catalog().CreateLibrary(env.ctx, env.library))
	return env
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: fmt.Sprintf("%s@example.com", name)}
	require.NoError(t, e.store.Users().Create(e.ctx, user))
	return user
}

func (e *testEnv) stock(t *testing.T) *models.Stock {
	t.Helper()
	stock := &models.Stock{BookID: e.book.ID, LibraryID: e.library.ID}
	require.NoError(t, e.store.Stocks().Create(e.ctx, stock))
	return stock
}

// lent creates a stock lent to user, bypassing the services
func (e *testEnv) lent(t *testing.T, user *models.User) (*models.Stock, *models.Lending) {
	t.Helper()
	stock := e.stock(t)
	lending := &models.Lending{StockID: stock.ID, UserID: user.ID, DueDate: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, e.store.Lendings().Create(e.ctx, lending))
	return stock, lending
}

// held creates a stock held for user, bypassing the services
func (e *testEnv) held(t *testing.T, user *models.User, expires time.Time) (*models.Stock, *models.Holding) {
	t.Helper()
	stock := e.stock(t)
	holding := &models.Holding{StockID: stock.ID, UserID: user.ID, ExpirationDate: expires}
	require.NoError(t, e.store.Holdings().Create(e.ctx, holding))
	return stock, holding
}

func (e *testEnv) reserve(t *testing.T, stock *models.Stock, user *models.User) *models.Reservation {
	t.Helper()
	reservation, err := e.reservations.Reserve(e.ctx, stock.ID, user.ID)
	require.NoError(t, err)
	return reservation
}

func (e *testEnv) reload(t *testing.T, stock *models.Stock) *models.Stock {
	t.Helper()
	reloaded, err := e.store.Stocks().GetByID(e.ctx, stock.ID)
	require.NoError(t, err)
	return reloaded
}

func holdingFor(userID string) any {
	return mock.MatchedBy(func(h *models.Holding) bool { return h.UserID == userID })
}

// collidingStore rejects every holding insert as if another transaction had just held
// the stock
type collidingStore struct {
	repository.Store
}

func (s collidingStore) Holdings() repository.HoldingRepository {
	return collidingHoldings{s.Store.Holdings()}
}

func (s collidingStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(collidingStore{tx})
	})
}

type collidingHoldings struct {
	repository.HoldingRepository
}

func (h collidingHoldings) Create(ctx context.Context, holding *models.Holding) error {
	return &repository.DuplicateError{Entity: "holding", Err: errors.New("UNIQUE constraint failed: holdings.stock_id")}
}
