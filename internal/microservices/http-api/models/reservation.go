package models

import "time"

// Reservation is a user's place in the FIFO queue for a Stock.
// (stock_id, user_id) is unique.
type Reservation struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	StockID   int64     `json:"stock_id" gorm:"not null;uniqueIndex:idx_reservations_stock_user;index:idx_reservations_stock_created,priority:1"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reservations_stock_user"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_reservations_stock_created,priority:2"`

	// Associations
	Stock *Stock `json:"stock,omitempty" gorm:"foreignKey:StockID"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Reservation) TableName() string {
	return "reservations"
}
