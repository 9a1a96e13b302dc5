package repository

import (
	"context"
	"time"

	"lendinghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type LendingRepository interface {
	Create(ctx context.Context, lending *models.Lending) error
	// GetByID preloads Renewing and Stock with its reservations, enough for
	// IsRenewable and ActualDueDate
	GetByID(ctx context.Context, id int64) (*models.Lending, error)
	// Delete removes the lending together with its renewing
	Delete(ctx context.Context, id int64) error
	CreateRenewing(ctx context.Context, renewing *models.Renewing) error
	// ListOverdue returns lendings whose effective due date is before today
	ListOverdue(ctx context.Context, today time.Time) ([]models.Lending, error)
}

type lendingRepository struct {
	db *gorm.DB
}

func NewLendingRepository(db *gorm.DB) LendingRepository {
	return &lendingRepository{db: db}
}

func (r *lendingRepository) Create(ctx context.Context, lending *models.Lending) error {
	return translate("create lending", "lending", r.db.WithContext(ctx).Create(lending).Error)
}

func (r *lendingRepository) GetByID(ctx context.Context, id int64) (*models.Lending, error) {
	var lending models.Lending
	if err := r.db.WithContext(ctx).
		Preload("Renewing").
		Preload("Stock.Book").
		Preload("Stock.Reservations").
		Preload("User").
		First(&lending, id).Error; err != nil {
		return nil, translate("get lending", "lending", err)
	}
	return &lending, nil
}

func (r *lendingRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("lending_id = ?", id).Delete(&models.Renewing{}).Error; err != nil {
		return translate("delete renewing", "renewing", err)
	}

	result := db.Delete(&models.Lending{}, id)
	if result.Error != nil {
		return translate("delete lending", "lending", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("delete lending", "lending")
	}
	return nil
}

func (r *lendingRepository) CreateRenewing(ctx context.Context, renewing *models.Renewing) error {
	return translate("create renewing", "renewing", r.db.WithContext(ctx).Create(renewing).Error)
}

func (r *lendingRepository) ListOverdue(ctx context.Context, today time.Time) ([]models.Lending, error) {
	var lendings []models.Lending
	if err := r.db.WithContext(ctx).
		Joins("LEFT JOIN renewings ON renewings.lending_id = lendings.id").
		Where("COALESCE(renewings.due_date, lendings.due_date) < ?", today).
		Preload("Renewing").
		Preload("Stock.Book").
		Preload("User").
		Order("lendings.id ASC").
		Find(&lendings).Error; err != nil {
		return nil, translate("list overdue lendings", "lending", err)
	}
	return lendings, nil
}
