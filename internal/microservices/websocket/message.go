package websocket

import (
	"log/slog"
	"time"

	"lendinghub/internal/notifier"

	jsoniter "github.com/json-iterator/go"
)

// Message protocol definitions

type MessageType string

const (
	TypeHoldCreated MessageType = "hold_created" // a stock is now held for the user
	TypeSystem      MessageType = "system"       // connection level notices
)

// Message is pushed to every connection of one user
type Message struct {
	Type           MessageType `json:"type"`
	UserID         string      `json:"user_id"`
	HoldingID      int64       `json:"holding_id,omitempty"`
	StockID        int64       `json:"stock_id,omitempty"`
	BookTitle      string      `json:"book_title,omitempty"`
	ExpirationDate string      `json:"expiration_date,omitempty"` // YYYY-MM-DD
	Content        string      `json:"content,omitempty"`
	Timestamp      time.Time   `json:"timestamp"` // time in UTC format
}

func NewHoldCreatedMessage(event notifier.HoldCreatedEvent) *Message {
	return &Message{
		Type:           TypeHoldCreated,
		UserID:         event.UserID,
		HoldingID:      event.HoldingID,
		StockID:        event.StockID,
		BookTitle:      event.BookTitle,
		ExpirationDate: event.ExpirationDate,
		Timestamp:      time.Now().UTC(),
	}
}

// specify the message for system
func NewSystemMessage(userID, content string) *Message {
	return &Message{
		Type:      TypeSystem,
		UserID:    userID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON: marshal Message struct to JSON
func (m *Message) ToJSON() ([]byte, error) {
	data, err := jsoniter.ConfigFastest.Marshal(m)
	if err != nil {
		slog.Error("Failed to marshal message to JSON", "error", err)
		return nil, err
	}
	return data, nil
}

// MessageFromJSON: unmarshal JSON data to Message struct
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := jsoniter.ConfigFastest.Unmarshal(data, &msg); err != nil {
		slog.Error("Failed to unmarshal message from JSON", "error", err)
		return nil, err
	}
	return &msg, nil
}
