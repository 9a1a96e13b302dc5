package repository

import (
	"context"
	"time"

	"lendinghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type HoldingRepository interface {
	Create(ctx context.Context, holding *models.Holding) error
	GetByID(ctx context.Context, id int64) (*models.Holding, error)
	Delete(ctx context.Context, id int64) error
	// ListExpired returns holdings whose expiration date is before today
	ListExpired(ctx context.Context, today time.Time) ([]models.Holding, error)
}

type holdingRepository struct {
	db *gorm.DB
}

func NewHoldingRepository(db *gorm.DB) HoldingRepository {
	return &holdingRepository{db: db}
}

func (r *holdingRepository) Create(ctx context.Context, holding *models.Holding) error {
	return translate("create holding", "holding", r.db.WithContext(ctx).Create(holding).Error)
}

func (r *holdingRepository) GetByID(ctx context.Context, id int64) (*models.Holding, error) {
	var holding models.Holding
	if err := r.db.WithContext(ctx).
		Preload("Stock.Book").
		Preload("User").
		First(&holding, id).Error; err != nil {
		return nil, translate("get holding", "holding", err)
	}
	return &holding, nil
}

func (r *holdingRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Holding{}, id)
	if result.Error != nil {
		return translate("delete holding", "holding", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("delete holding", "holding")
	}
	return nil
}

func (r *holdingRepository) ListExpired(ctx context.Context, today time.Time) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := r.db.WithContext(ctx).
		Preload("Stock.Book").
		Preload("User").
		Where("expiration_date < ?", today).
		Order("expiration_date ASC, id ASC").
		Find(&holdings).Error; err != nil {
		return nil, translate("list expired holdings", "holding", err)
	}
	return holdings, nil
}
