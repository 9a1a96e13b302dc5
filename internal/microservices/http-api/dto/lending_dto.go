package dto

import (
	"time"

	"lendinghub/internal/microservices/http-api/models"
)

const dateLayout = "2006-01-02"

// UserRequest: payload naming the user a librarian acts for
type UserRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// StockResponse: a copy with its derived state
type StockResponse struct {
	ID               int64  `json:"id"`
	BookID           int64  `json:"book_id"`
	LibraryID        int64  `json:"library_id"`
	Title            string `json:"title,omitempty"`
	Library          string `json:"library,omitempty"`
	State            string `json:"state"` // available | lent | held
	Lendable         bool   `json:"lendable"`
	Holdable         bool   `json:"holdable"`
	Reservable       bool   `json:"reservable"`
	ReservationCount int    `json:"reservation_count"`
	DueDate          string `json:"due_date,omitempty"`        // effective due date when lent
	HoldExpiration   string `json:"hold_expiration,omitempty"` // when held
}

// StockListResponse: stocks of one book
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Total int             `json:"total"`
}

// HoldingResponse: a stock held for a user
type HoldingResponse struct {
	ID             int64  `json:"id"`
	StockID        int64  `json:"stock_id"`
	UserID         string `json:"user_id"`
	Title          string `json:"title,omitempty"`
	ExpirationDate string `json:"expiration_date"`
}

// LendingResponse: an active loan
type LendingResponse struct {
	ID            int64  `json:"id"`
	StockID       int64  `json:"stock_id"`
	UserID        string `json:"user_id"`
	Title         string `json:"title,omitempty"`
	DueDate       string `json:"due_date"`
	ActualDueDate string `json:"actual_due_date"`
	Renewed       bool   `json:"renewed"`
	Renewable     bool   `json:"renewable"`
}

// RenewingResponse: the extension of a lending
type RenewingResponse struct {
	LendingID int64  `json:"lending_id"`
	DueDate   string `json:"due_date"`
}

// ReservationResponse: a queue entry and its position
type ReservationResponse struct {
	ID        int64     `json:"id"`
	StockID   int64     `json:"stock_id"`
	UserID    string    `json:"user_id"`
	Order     int64     `json:"order,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReturnResponse: result of a return, with the holding the stock cascaded to if any
type ReturnResponse struct {
	Returned          int64            `json:"returned"`
	NextHolding       *HoldingResponse `json:"next_holding,omitempty"`
	NotificationError string           `json:"notification_error,omitempty"`
}

// HoldingCreatedResponse: a new holding, committed even when notifying its user failed
type HoldingCreatedResponse struct {
	Holding           *HoldingResponse `json:"holding"`
	NotificationError string           `json:"notification_error,omitempty"`
}

// CancelHoldingResponse: result of cancelling a holding
type CancelHoldingResponse struct {
	Cancelled         int64            `json:"cancelled"`
	NextHolding       *HoldingResponse `json:"next_holding,omitempty"`
	NotificationError string           `json:"notification_error,omitempty"`
}

func NewStockResponse(s *models.Stock) StockResponse {
	resp := StockResponse{
		ID:               s.ID,
		BookID:           s.BookID,
		LibraryID:        s.LibraryID,
		Title:            s.Title(),
		State:            string(s.State()),
		Lendable:         s.IsLendable(),
		Holdable:         s.IsHoldable(),
		Reservable:       s.IsReservable(),
		ReservationCount: len(s.Reservations),
	}
	if s.Library != nil {
		resp.Library = s.Library.Name
	}
	if s.Lending != nil {
		resp.DueDate = s.Lending.ActualDueDate().Format(dateLayout)
	}
	if s.Holding != nil {
		resp.HoldExpiration = s.Holding.ExpirationDate.Format(dateLayout)
	}
	return resp
}

func NewHoldingResponse(h *models.Holding) *HoldingResponse {
	if h == nil {
		return nil
	}
	resp := &HoldingResponse{
		ID:             h.ID,
		StockID:        h.StockID,
		UserID:         h.UserID,
		ExpirationDate: h.ExpirationDate.Format(dateLayout),
	}
	if h.Stock != nil {
		resp.Title = h.Stock.Title()
	}
	return resp
}

func NewLendingResponse(l *models.Lending) LendingResponse {
	resp := LendingResponse{
		ID:            l.ID,
		StockID:       l.StockID,
		UserID:        l.UserID,
		DueDate:       l.DueDate.Format(dateLayout),
		ActualDueDate: l.ActualDueDate().Format(dateLayout),
		Renewed:       l.IsRenewed(),
		Renewable:     l.IsRenewable(),
	}
	if l.Stock != nil {
		resp.Title = l.Stock.Title()
	}
	return resp
}

func NewReservationResponse(r *models.Reservation, order int64) ReservationResponse {
	return ReservationResponse{
		ID:        r.ID,
		StockID:   r.StockID,
		UserID:    r.UserID,
		Order:     order,
		CreatedAt: r.CreatedAt,
	}
}
