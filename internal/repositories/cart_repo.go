package repositories

import (
	"time"

	"techshop/internal/models"
)

// CartRepository defines the interface for cart data access. There is at
// most one active cart per user; GetActive returns NotFound rather than
// creating one, lazy creation is the cart service's job.
type CartRepository interface {
	GetActive(userID string) (*models.Cart, error)
	Save(cart *models.Cart) error
	DeleteInactiveBefore(cutoff time.Time) (int64, error)
}
