package repository

import (
	"context"
	"errors"

	"lendinghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ReservationRepository is the FIFO waiting list of a stock. Queue order is creation
// time, with the row id breaking ties between equal timestamps.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	// First returns the oldest reservation of the stock, or nil when the queue is empty
	First(ctx context.Context, stockID int64) (*models.Reservation, error)
	// Order is the 1-based queue position of the reservation
	Order(ctx context.Context, reservation *models.Reservation) (int64, error)
	ListByStock(ctx context.Context, stockID int64) ([]models.Reservation, error)
	Delete(ctx context.Context, id int64) error
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return translate("create reservation", "reservation", r.db.WithContext(ctx).Create(reservation).Error)
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Stock.Book").
		First(&reservation, id).Error; err != nil {
		return nil, translate("get reservation", "reservation", err)
	}
	return &reservation, nil
}

func (r *reservationRepository) First(ctx context.Context, stockID int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at ASC, id ASC").
		First(&reservation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate("first reservation", "reservation", err)
	}
	return &reservation, nil
}

func (r *reservationRepository) Order(ctx context.Context, reservation *models.Reservation) (int64, error) {
	var earlier int64
	if err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("stock_id = ?", reservation.StockID).
		Where("created_at < ? OR (created_at = ? AND id < ?)",
			reservation.CreatedAt, reservation.CreatedAt, reservation.ID).
		Count(&earlier).Error; err != nil {
		return 0, translate("reservation order", "reservation", err)
	}
	return earlier + 1, nil
}

func (r *reservationRepository) ListByStock(ctx context.Context, stockID int64) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at ASC, id ASC").
		Find(&reservations).Error; err != nil {
		return nil, translate("list reservations", "reservation", err)
	}
	return reservations, nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Reservation{}, id)
	if result.Error != nil {
		return translate("delete reservation", "reservation", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("delete reservation", "reservation")
	}
	return nil
}
