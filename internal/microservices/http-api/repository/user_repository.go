package repository

import (
	"context"

	"lendinghub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the user lookups the lending core needs
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return translate("create user", "user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	// return nil on error so a zero-value user is never mistaken for a hit
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("find user", "user", err)
	}
	return &user, nil
}
