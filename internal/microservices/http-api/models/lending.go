package models

import (
	"time"

	"lendinghub/internal/shared"
)

// Lending is an active loan of a Stock to a User. One per stock.
type Lending struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	StockID   int64     `json:"stock_id" gorm:"not null;uniqueIndex"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	DueDate   time.Time `json:"due_date" gorm:"type:date;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Stock    *Stock    `json:"stock,omitempty" gorm:"foreignKey:StockID"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Renewing *Renewing `json:"renewing,omitempty" gorm:"foreignKey:LendingID"`
}

func (Lending) TableName() string {
	return "lendings"
}

func (l *Lending) IsRenewed() bool {
	return l.Renewing != nil
}

// ActualDueDate is the renewed due date when there is one
func (l *Lending) ActualDueDate() time.Time {
	if l.IsRenewed() {
		return l.Renewing.DueDate
	}
	return l.DueDate
}

// IsOverdue compares the effective due date with today's date
func (l *Lending) IsOverdue(today time.Time) bool {
	return shared.DateBefore(l.ActualDueDate(), today)
}

// IsRenewable needs Renewing and Stock.Reservations loaded. A lending whose stock was
// not loaded is never reported renewable.
func (l *Lending) IsRenewable() bool {
	if l.IsRenewed() || l.Stock == nil {
		return false
	}
	return !l.Stock.IsReserved()
}

// Renewing extends a Lending's due date, once
type Renewing struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	LendingID int64     `json:"lending_id" gorm:"not null;uniqueIndex"`
	DueDate   time.Time `json:"due_date" gorm:"type:date;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Renewing) TableName() string {
	return "renewings"
}

func (r *Renewing) IsOverdue(today time.Time) bool {
	return shared.DateBefore(r.DueDate, today)
}
