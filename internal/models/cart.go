package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart lifecycle states. At most one cart per user is "active".
const (
	CartStatusActive    = "active"
	CartStatusCompleted = "completed"
	CartStatusAbandoned = "abandoned"
)

// CartTTL is how long an untouched cart survives before the janitor
// removes it.
const CartTTL = 7 * 24 * time.Hour

// CartItem is a single line in a cart. It carries purchase intent only:
// no price is cached here, the cart total is always recomputed from the
// live catalog. Image and variant fields are display snapshots.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// Cart holds a user's in-progress purchase intent. TotalPrice is derived:
// it is recomputed from current catalog prices on every persist and never
// accepted from the client.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"user_id" gorm:"index:idx_carts_user_status;type:varchar(36)"`
	Status     string     `json:"status" gorm:"index:idx_carts_user_status;default:active"`
	Items      []CartItem `json:"items" gorm:"serializer:json"`
	TotalPrice int64      `json:"total_price"`
	LastActive time.Time  `json:"last_active" gorm:"index"`
	gorm.Model
}

// FindItem returns the index of the line referencing productID, or -1.
func (c *Cart) FindItem(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
