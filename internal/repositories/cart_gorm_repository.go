package repositories

import (
	"errors"
	"fmt"
	"time"

	"techshop/internal/apperr"
	"techshop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetActive retrieves the user's single active cart.
func (r *GORMCartRepository) GetActive(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.First(&cart, "user_id = ? AND status = ?", userID, models.CartStatusActive).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.NotFound{Entity: "cart", ID: userID}
		}
		return nil, fmt.Errorf("failed to get active cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// Save creates or updates a cart.
func (r *GORMCartRepository) Save(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.Save(cart).Error; err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cart.ID, err)
	}
	return nil
}

// DeleteInactiveBefore removes carts untouched since cutoff. This stands in
// for a document store's TTL index; the janitor in main calls it
// periodically.
func (r *GORMCartRepository) DeleteInactiveBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("last_active < ?", cutoff).Delete(&models.Cart{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete inactive carts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
