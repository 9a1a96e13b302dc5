package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleMember    = "member"
	RoleLibrarian = "librarian"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"default:'member';not null" json:"role"` // "member" or "librarian"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}
