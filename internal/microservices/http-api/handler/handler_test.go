package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lendinghub/internal/microservices/http-api/dto"
	"lendinghub/internal/microservices/http-api/middleware"
	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/microservices/http-api/repository"
	"lendinghub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "test-secret"
	librarianID   = "0b7d1f3a-55f0-4c87-9d2a-2d1b8f7c1e01"
	memberID      = "7b0f4e5c-0d7e-4a4e-9c39-6c1f2b9a1d10"
	otherMemberID = "c3a9e8b2-7f14-4a55-8e0d-5a2b3c4d5e6f"
)

// --- SETUP ---

type mocks struct {
	stocks        *MockStockService
	holds         *MockHoldService
	lendings      *MockLendingService
	reservations  *MockReservationService
	notifications *MockNotificationService
}

func setupRouter() (*gin.Engine, *mocks) {
	gin.SetMode(gin.TestMode)
	m := &mocks{
		stocks:        &MockStockService{},
		holds:         &MockHoldService{},
		lendings:      &MockLendingService{},
		reservations:  &MockReservationService{},
		notifications: &MockNotificationService{},
	}
	r := NewRouter(testSecret, Services{
		Stocks:        m.stocks,
		Holds:         m.holds,
		Lendings:      m.lendings,
		Reservations:  m.reservations,
		Notifications: m.notifications,
	})
	return r, m
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := middleware.NewToken(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, r *gin.Engine, method, path, tok string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func sampleHolding(id, stockID int64, userID string) *models.Holding {
	return &models.Holding{
		ID:             id,
		StockID:        stockID,
		UserID:         userID,
		ExpirationDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		Stock:          &models.Stock{ID: stockID, Book: &models.Book{Title: "Dune"}},
	}
}

func sampleLending(id, stockID int64, userID string) *models.Lending {
	return &models.Lending{
		ID:      id,
		StockID: stockID,
		UserID:  userID,
		DueDate: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		Stock:   &models.Stock{ID: stockID, Book: &models.Book{Title: "Dune"}},
	}
}

// --- TESTS ---

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate", &repository.DuplicateError{Entity: "holding", Err: errors.New("unique")}, http.StatusConflict},
		{"first reservation collision", &service.FirstReservationHoldingAlreadyExistsError{
			StockID: 1, Err: &repository.DuplicateError{Entity: "holding", Err: errors.New("unique")},
		}, http.StatusConflict},
		{"not found", &service.ServiceError{Op: "get holding", Err: &repository.QueryError{
			Op: "get holding", Err: fmt.Errorf("holding: %w", repository.ErrNotFound),
		}}, http.StatusNotFound},
		{"not holdable", service.ErrStockNotHoldable, http.StatusUnprocessableEntity},
		{"not renewable", service.ErrNotRenewable, http.StatusUnprocessableEntity},
		{"already has stock", service.ErrAlreadyHasStock, http.StatusUnprocessableEntity},
		{"deadline", &service.ServiceError{Op: "lend", Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"other", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func TestAuthRequired(t *testing.T) {
	r, _ := setupRouter()

	w := do(t, r, http.MethodGet, "/api/stocks/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStockHandler_Get(t *testing.T) {
	r, m := setupRouter()
	stock := &models.Stock{
		ID: 3, BookID: 1, LibraryID: 2,
		Book:    &models.Book{Title: "Dune"},
		Lending: sampleLending(9, 3, otherMemberID),
	}
	m.stocks.On("Get", mock.Anything, int64(3)).Return(stock, nil)

	w := do(t, r, http.MethodGet, "/api/stocks/3", token(t, memberID, models.RoleMember), nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.StockResponse](t, w)
	assert.Equal(t, "lent", resp.State)
	assert.True(t, resp.Reservable)
	assert.False(t, resp.Lendable)
	assert.Equal(t, "2026-03-16", resp.DueDate)
	m.stocks.AssertExpectations(t)
}

func TestStockHandler_InvalidID(t *testing.T) {
	r, m := setupRouter()

	w := do(t, r, http.MethodGet, "/api/stocks/abc", token(t, memberID, models.RoleMember), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.stocks.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestStockHandler_ListByBook(t *testing.T) {
	r, m := setupRouter()
	m.stocks.On("ListByBook", mock.Anything, int64(1)).Return([]models.Stock{
		{ID: 3, BookID: 1},
		{ID: 4, BookID: 1, Holding: sampleHolding(5, 4, memberID)},
	}, nil)

	w := do(t, r, http.MethodGet, "/api/books/1/stocks", token(t, memberID, models.RoleMember), nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.StockListResponse](t, w)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "available", resp.Items[0].State)
	assert.Equal(t, "held", resp.Items[1].State)
	assert.Equal(t, "2026-03-09", resp.Items[1].HoldExpiration)
}

func TestStockHandler_PlaceHolding(t *testing.T) {
	t.Run("members are forbidden", func(t *testing.T) {
		r, m := setupRouter()

		w := do(t, r, http.MethodPost, "/api/stocks/3/holdings", token(t, memberID, models.RoleMember),
			dto.UserRequest{UserID: memberID})

		assert.Equal(t, http.StatusForbidden, w.Code)
		m.holds.AssertNotCalled(t, "Place", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("user id must be a uuid", func(t *testing.T) {
		r, _ := setupRouter()

		w := do(t, r, http.MethodPost, "/api/stocks/3/holdings", token(t, librarianID, models.RoleLibrarian),
			dto.UserRequest{UserID: "alice"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		r, m := setupRouter()
		m.holds.On("Place", mock.Anything, int64(3), memberID).Return(sampleHolding(5, 3, memberID), nil)

		w := do(t, r, http.MethodPost, "/api/stocks/3/holdings", token(t, librarianID, models.RoleLibrarian),
			dto.UserRequest{UserID: memberID})

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decode[dto.HoldingCreatedResponse](t, w)
		require.NotNil(t, resp.Holding)
		assert.Equal(t, int64(5), resp.Holding.ID)
		assert.Equal(t, "2026-03-09", resp.Holding.ExpirationDate)
		assert.Empty(t, resp.NotificationError)
	})

	t.Run("notification failure keeps the holding", func(t *testing.T) {
		r, m := setupRouter()
		notifyErr := &service.ServiceError{Op: "notify hold created", Err: errors.New("smtp down")}
		m.holds.On("Place", mock.Anything, int64(3), memberID).Return(sampleHolding(5, 3, memberID), notifyErr)

		w := do(t, r, http.MethodPost, "/api/stocks/3/holdings", token(t, librarianID, models.RoleLibrarian),
			dto.UserRequest{UserID: memberID})

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decode[dto.HoldingCreatedResponse](t, w)
		require.NotNil(t, resp.Holding)
		assert.Contains(t, resp.NotificationError, "smtp down")
	})

	t.Run("stock already lent", func(t *testing.T) {
		r, m := setupRouter()
		m.holds.On("Place", mock.Anything, int64(3), memberID).Return(nil, service.ErrStockNotHoldable)

		w := do(t, r, http.MethodPost, "/api/stocks/3/holdings", token(t, librarianID, models.RoleLibrarian),
			dto.UserRequest{UserID: memberID})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestStockHandler_Lend(t *testing.T) {
	r, m := setupRouter()
	m.lendings.On("Lend", mock.Anything, int64(3), memberID).
		Return(nil, &repository.DuplicateError{Entity: "lending", Err: errors.New("unique")})

	w := do(t, r, http.MethodPost, "/api/stocks/3/lendings", token(t, librarianID, models.RoleLibrarian),
		dto.UserRequest{UserID: memberID})

	assert.Equal(t, http.StatusConflict, w.Code)
	m.lendings.AssertExpectations(t)
}

func TestHoldingHandler_Get(t *testing.T) {
	r, m := setupRouter()
	m.holds.On("Get", mock.Anything, int64(5)).Return(sampleHolding(5, 3, memberID), nil)

	w := do(t, r, http.MethodGet, "/api/holdings/5", token(t, memberID, models.RoleMember), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/holdings/5", token(t, otherMemberID, models.RoleMember), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodGet, "/api/holdings/5", token(t, librarianID, models.RoleLibrarian), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHoldingHandler_GetNotFound(t *testing.T) {
	r, m := setupRouter()
	notFound := &service.ServiceError{Op: "get holding", Err: fmt.Errorf("holding: %w", repository.ErrNotFound)}
	m.holds.On("Get", mock.Anything, int64(99)).Return(nil, notFound)

	w := do(t, r, http.MethodGet, "/api/holdings/99", token(t, memberID, models.RoleMember), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHoldingHandler_Fulfill(t *testing.T) {
	r, m := setupRouter()
	holding := sampleHolding(5, 3, memberID)
	m.holds.On("Get", mock.Anything, int64(5)).Return(holding, nil)
	m.holds.On("Fulfill", mock.Anything, holding).Return(sampleLending(11, 3, memberID), nil)

	w := do(t, r, http.MethodPost, "/api/holdings/5/fulfill", token(t, librarianID, models.RoleLibrarian), nil)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[dto.LendingResponse](t, w)
	assert.Equal(t, int64(11), resp.ID)
	assert.Equal(t, "2026-03-16", resp.DueDate)
	m.holds.AssertExpectations(t)
}

func TestHoldingHandler_Cancel(t *testing.T) {
	t.Run("cascades to the next reservation", func(t *testing.T) {
		r, m := setupRouter()
		holding := sampleHolding(5, 3, memberID)
		next := sampleHolding(6, 3, otherMemberID)
		m.holds.On("Get", mock.Anything, int64(5)).Return(holding, nil)
		m.holds.On("Cancel", mock.Anything, holding).Return(next, nil)

		w := do(t, r, http.MethodDelete, "/api/holdings/5", token(t, librarianID, models.RoleLibrarian), nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.CancelHoldingResponse](t, w)
		assert.Equal(t, int64(5), resp.Cancelled)
		require.NotNil(t, resp.NextHolding)
		assert.Equal(t, otherMemberID, resp.NextHolding.UserID)
	})

	t.Run("empty queue", func(t *testing.T) {
		r, m := setupRouter()
		holding := sampleHolding(5, 3, memberID)
		m.holds.On("Get", mock.Anything, int64(5)).Return(holding, nil)
		m.holds.On("Cancel", mock.Anything, holding).Return(nil, nil)

		w := do(t, r, http.MethodDelete, "/api/holdings/5", token(t, librarianID, models.RoleLibrarian), nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.CancelHoldingResponse](t, w)
		assert.Nil(t, resp.NextHolding)
	})

	t.Run("notification failure", func(t *testing.T) {
		r, m := setupRouter()
		holding := sampleHolding(5, 3, memberID)
		next := sampleHolding(6, 3, otherMemberID)
		m.holds.On("Get", mock.Anything, int64(5)).Return(holding, nil)
		m.holds.On("Cancel", mock.Anything, holding).
			Return(next, &service.ServiceError{Op: "notify hold created", Err: errors.New("smtp down")})

		w := do(t, r, http.MethodDelete, "/api/holdings/5", token(t, librarianID, models.RoleLibrarian), nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[dto.CancelHoldingResponse](t, w)
		require.NotNil(t, resp.NextHolding)
		assert.Contains(t, resp.NotificationError, "smtp down")
	})
}

func TestLendingHandler_Return(t *testing.T) {
	r, m := setupRouter()
	lending := sampleLending(11, 3, memberID)
	m.lendings.On("Get", mock.Anything, int64(11)).Return(lending, nil)
	m.lendings.On("Return", mock.Anything, lending).Return(sampleHolding(6, 3, otherMemberID), nil)

	w := do(t, r, http.MethodPost, "/api/lendings/11/return", token(t, librarianID, models.RoleLibrarian), nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.ReturnResponse](t, w)
	assert.Equal(t, int64(11), resp.Returned)
	require.NotNil(t, resp.NextHolding)
	assert.Equal(t, int64(6), resp.NextHolding.ID)
}

func TestLendingHandler_ReturnFailure(t *testing.T) {
	r, m := setupRouter()
	lending := sampleLending(11, 3, memberID)
	m.lendings.On("Get", mock.Anything, int64(11)).Return(lending, nil)
	m.lendings.On("Return", mock.Anything, lending).
		Return(nil, &service.ServiceError{Op: "return lending", Err: errors.New("connection reset")})

	w := do(t, r, http.MethodPost, "/api/lendings/11/return", token(t, librarianID, models.RoleLibrarian), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLendingHandler_Renew(t *testing.T) {
	t.Run("owner renews", func(t *testing.T) {
		r, m := setupRouter()
		m.lendings.On("Get", mock.Anything, int64(11)).Return(sampleLending(11, 3, memberID), nil)
		m.lendings.On("Renew", mock.Anything, int64(11)).Return(&models.Renewing{
			LendingID: 11,
			DueDate:   time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC),
		}, nil)

		w := do(t, r, http.MethodPost, "/api/lendings/11/renew", token(t, memberID, models.RoleMember), nil)

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decode[dto.RenewingResponse](t, w)
		assert.Equal(t, "2026-03-30", resp.DueDate)
	})

	t.Run("reserved stock", func(t *testing.T) {
		r, m := setupRouter()
		m.lendings.On("Get", mock.Anything, int64(11)).Return(sampleLending(11, 3, memberID), nil)
		m.lendings.On("Renew", mock.Anything, int64(11)).Return(nil, service.ErrNotRenewable)

		w := do(t, r, http.MethodPost, "/api/lendings/11/renew", token(t, memberID, models.RoleMember), nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("someone else's lending", func(t *testing.T) {
		r, m := setupRouter()
		m.lendings.On("Get", mock.Anything, int64(11)).Return(sampleLending(11, 3, memberID), nil)

		w := do(t, r, http.MethodPost, "/api/lendings/11/renew", token(t, otherMemberID, models.RoleMember), nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		m.lendings.AssertNotCalled(t, "Renew", mock.Anything, mock.Anything)
	})
}

func TestLendingHandler_ListOverdue(t *testing.T) {
	r, m := setupRouter()
	m.lendings.On("ListOverdue", mock.Anything).Return([]models.Lending{*sampleLending(11, 3, memberID)}, nil)

	w := do(t, r, http.MethodGet, "/api/lendings/overdue", token(t, memberID, models.RoleMember), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodGet, "/api/lendings/overdue", token(t, librarianID, models.RoleLibrarian), nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Items []dto.LendingResponse `json:"items"`
		Total int                   `json:"total"`
	}](t, w)
	assert.Equal(t, 1, resp.Total)
}

func TestReservationHandler_Reserve(t *testing.T) {
	t.Run("queues the caller", func(t *testing.T) {
		r, m := setupRouter()
		reservation := &models.Reservation{ID: 21, StockID: 3, UserID: memberID}
		m.reservations.On("Reserve", mock.Anything, int64(3), memberID).Return(reservation, nil)
		m.reservations.On("Order", mock.Anything, reservation).Return(int64(2), nil)

		w := do(t, r, http.MethodPost, "/api/stocks/3/reservations", token(t, memberID, models.RoleMember), nil)

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decode[dto.ReservationResponse](t, w)
		assert.Equal(t, int64(21), resp.ID)
		assert.Equal(t, int64(2), resp.Order)
	})

	t.Run("available stock", func(t *testing.T) {
		r, m := setupRouter()
		m.reservations.On("Reserve", mock.Anything, int64(3), memberID).Return(nil, service.ErrStockNotReservable)

		w := do(t, r, http.MethodPost, "/api/stocks/3/reservations", token(t, memberID, models.RoleMember), nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("already reserved", func(t *testing.T) {
		r, m := setupRouter()
		m.reservations.On("Reserve", mock.Anything, int64(3), memberID).
			Return(nil, &repository.DuplicateError{Entity: "reservation", Err: errors.New("unique")})

		w := do(t, r, http.MethodPost, "/api/stocks/3/reservations", token(t, memberID, models.RoleMember), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestReservationHandler_Cancel(t *testing.T) {
	r, m := setupRouter()
	m.reservations.On("Get", mock.Anything, int64(21)).Return(&models.Reservation{ID: 21, StockID: 3, UserID: memberID}, nil)
	m.reservations.On("Cancel", mock.Anything, int64(21)).Return(nil)

	w := do(t, r, http.MethodDelete, "/api/reservations/21", token(t, otherMemberID, models.RoleMember), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodDelete, "/api/reservations/21", token(t, memberID, models.RoleMember), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	m.reservations.AssertNumberOfCalls(t, "Cancel", 1)
}

func TestNotificationHandler(t *testing.T) {
	r, m := setupRouter()
	m.notifications.On("GetUnread", mock.Anything, memberID).Return([]models.Notification{
		{ID: 1, UserID: memberID, HoldingID: 5, Type: models.NotificationHoldCreated, Message: "Dune is on hold for you until 2026-03-09."},
	}, nil)
	m.notifications.On("MarkAsRead", mock.Anything, memberID, int64(1)).Return(nil)
	m.notifications.On("MarkAllAsRead", mock.Anything, memberID).Return(nil)
	tok := token(t, memberID, models.RoleMember)

	w := do(t, r, http.MethodGet, "/api/notifications/unread", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Notifications []models.Notification `json:"notifications"`
	}](t, w)
	require.Len(t, resp.Notifications, 1)
	assert.Equal(t, int64(5), resp.Notifications[0].HoldingID)

	w = do(t, r, http.MethodPut, "/api/notifications/1/read", tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodPut, "/api/notifications/read-all", tok, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	m.notifications.AssertExpectations(t)
}
