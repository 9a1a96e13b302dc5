package repository

import (
	"context"

	"lendinghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	Create(ctx context.Context, stock *models.Stock) error
	GetByID(ctx context.Context, id int64) (*models.Stock, error)
	// GetForUpdate is GetByID that also row-locks the stock until the surrounding
	// transaction ends. Every state transition of a copy starts with it.
	GetForUpdate(ctx context.Context, id int64) (*models.Stock, error)
	ListByBook(ctx context.Context, bookID int64) ([]models.Stock, error)
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{db: db}
}

// withState preloads every association the state predicates read
func withState(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Book").
		Preload("Library").
		Preload("Lending").
		Preload("Lending.Renewing").
		Preload("Holding").
		Preload("Reservations", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
}

func (r *stockRepository) Create(ctx context.Context, stock *models.Stock) error {
	return translate("create stock", "stock", r.db.WithContext(ctx).Create(stock).Error)
}

func (r *stockRepository) GetByID(ctx context.Context, id int64) (*models.Stock, error) {
	var stock models.Stock
	if err := withState(r.db.WithContext(ctx)).First(&stock, id).Error; err != nil {
		return nil, translate("get stock", "stock", err)
	}
	return &stock, nil
}

func (r *stockRepository) GetForUpdate(ctx context.Context, id int64) (*models.Stock, error) {
	var stock models.Stock
	// sqlite has no row locks, its dialector drops the clause
	db := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	if err := db.First(&stock, id).Error; err != nil {
		return nil, translate("lock stock", "stock", err)
	}
	return r.GetByID(ctx, id)
}

func (r *stockRepository) ListByBook(ctx context.Context, bookID int64) ([]models.Stock, error) {
	var stocks []models.Stock
	if err := withState(r.db.WithContext(ctx)).
		Where("book_id = ?", bookID).
		Order("library_id ASC, id ASC").
		Find(&stocks).Error; err != nil {
		return nil, translate("list stocks by book", "stock", err)
	}
	return stocks, nil
}
