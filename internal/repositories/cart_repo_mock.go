package repositories

import (
	"sync"
	"time"

	"techshop/internal/apperr"
	"techshop/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart // keyed by cart ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// GetActive returns the user's active cart, if any.
func (r *MockCartRepository) GetActive(userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cart := range r.carts {
		if cart.UserID == userID && cart.Status == models.CartStatusActive {
			c := cart
			return &c, nil
		}
	}
	return nil, &apperr.NotFound{Entity: "cart", ID: userID}
}

// Save creates or updates a cart.
func (r *MockCartRepository) Save(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	r.carts[cart.ID] = *cart
	return nil
}

// DeleteInactiveBefore removes carts whose LastActive is before cutoff.
func (r *MockCartRepository) DeleteInactiveBefore(cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, cart := range r.carts {
		if cart.LastActive.Before(cutoff) {
			delete(r.carts, id)
			removed++
		}
	}
	return removed, nil
}

func (r *MockCartRepository) snapshot() map[string]models.Cart {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]models.Cart, len(r.carts))
	for k, v := range r.carts {
		snap[k] = v
	}
	return snap
}

func (r *MockCartRepository) restore(snap map[string]models.Cart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = snap
}
