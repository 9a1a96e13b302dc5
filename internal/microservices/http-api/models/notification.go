package models

import "time"

const NotificationHoldCreated = "HOLD_CREATED"

// Notification is the in-app copy of a message sent to a user
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"` // HOLD_CREATED
	StockID   int64     `json:"stock_id"`
	HoldingID int64     `json:"holding_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
