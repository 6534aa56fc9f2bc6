package repositories

import (
	"techshop/internal/models"
)

// ProductFilter narrows and pages a product listing.
type ProductFilter struct {
	Category string
	Brand    string
	Search   string // matched against name, brand and description
	Page     int
	Limit    int
}

// ProductRepository defines the interface for product data access.
// DecrementStock is the only stock mutation the order commit is allowed to
// use; implementations must make the check-and-decrement atomic so it can
// participate in a multi-product transaction.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	GetByNameAndBrand(name, brand string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	DecrementStock(id string, quantity int) error
}
