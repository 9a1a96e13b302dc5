package repository

import (
	"context"

	"lendinghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	CreateBook(ctx context.Context, book *models.Book) error
	CreateLibrary(ctx context.Context, library *models.Library) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) CreateBook(ctx context.Context, book *models.Book) error {
	return translate("create book", "book", r.db.WithContext(ctx).Create(book).Error)
}

func (r *catalogRepository) CreateLibrary(ctx context.Context, library *models.Library) error {
	return translate("create library", "library", r.db.WithContext(ctx).Create(library).Error)
}
