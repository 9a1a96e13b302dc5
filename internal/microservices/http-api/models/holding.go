package models

import (
	"time"

	"lendinghub/internal/shared"
)

// Holding keeps a Stock aside for one user until ExpirationDate. One per stock.
type Holding struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	StockID        int64     `json:"stock_id" gorm:"not null;uniqueIndex"`
	UserID         string    `json:"user_id" gorm:"type:uuid;not null;index"`
	ExpirationDate time.Time `json:"expiration_date" gorm:"type:date;not null;index"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Stock *Stock `json:"stock,omitempty" gorm:"foreignKey:StockID"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Holding) TableName() string {
	return "holdings"
}

func (h *Holding) IsExpired(today time.Time) bool {
	return shared.DateBefore(h.ExpirationDate, today)
}
