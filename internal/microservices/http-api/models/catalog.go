package models

import "time"

// Book is the catalog item a Stock is a copy of. Catalog management lives elsewhere,
// only what lending and notifications need is kept here.
type Book struct {
	ID              int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string     `json:"title" gorm:"not null;size:100"`
	ISBN            *string    `json:"isbn,omitempty" gorm:"size:13;index"`
	Publisher       *string    `json:"publisher,omitempty" gorm:"size:100"`
	PublicationDate *time.Time `json:"publication_date,omitempty" gorm:"type:date"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// association
	Stocks []Stock `json:"stocks,omitempty" gorm:"foreignKey:BookID"`
}

func (Book) TableName() string {
	return "books"
}

// Library is a branch location where stocks are shelved
type Library struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"not null;size:100;uniqueIndex"`
	Address   string    `json:"address" gorm:"not null;size:100;uniqueIndex"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Library) TableName() string {
	return "libraries"
}
