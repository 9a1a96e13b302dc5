package models

import "time"

// StockState is the derived state of a physical copy
type StockState string

const (
	StockAvailable StockState = "available"
	StockLent      StockState = "lent"
	StockHeld      StockState = "held"
)

// Stock is a physical copy of a Book shelved at one Library.
//
// Lending and Holding are the one-to-one rows that make a copy lent or held; their
// presence is the whole state of the copy. The predicates below read the associations
// as loaded, so callers must preload Lending, Holding and Reservations
// (repository.StockRepository.GetByID does).
type Stock struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID    int64     `json:"book_id" gorm:"not null;index"`
	LibraryID int64     `json:"library_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Book         *Book         `json:"book,omitempty" gorm:"foreignKey:BookID"`
	Library      *Library      `json:"library,omitempty" gorm:"foreignKey:LibraryID"`
	Lending      *Lending      `json:"lending,omitempty" gorm:"foreignKey:StockID"`
	Holding      *Holding      `json:"holding,omitempty" gorm:"foreignKey:StockID"`
	Reservations []Reservation `json:"reservations,omitempty" gorm:"foreignKey:StockID"`
}

func (Stock) TableName() string {
	return "stocks"
}

func (s *Stock) IsLent() bool {
	return s.Lending != nil
}

func (s *Stock) IsHeld() bool {
	return s.Holding != nil
}

// IsLendable reports whether the copy can be checked out right now
func (s *Stock) IsLendable() bool {
	return !s.IsLent() && !s.IsHeld()
}

func (s *Stock) IsHoldable() bool {
	return s.IsLendable()
}

// IsReservable is true only for copies that are lent or held. An available copy is
// held or lent directly instead of being queued for.
func (s *Stock) IsReservable() bool {
	return !s.IsLendable()
}

func (s *Stock) IsReserved() bool {
	return len(s.Reservations) > 0
}

func (s *Stock) State() StockState {
	switch {
	case s.IsLent():
		return StockLent
	case s.IsHeld():
		return StockHeld
	default:
		return StockAvailable
	}
}

// Title is the book title, or empty when Book was not loaded
func (s *Stock) Title() string {
	if s.Book == nil {
		return ""
	}
	return s.Book.Title
}
