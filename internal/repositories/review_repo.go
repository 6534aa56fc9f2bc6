package repositories

import "techshop/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id string) (*models.Review, error)
	ListByProduct(productID string) ([]models.Review, error)
	ListByUser(userID string) ([]models.Review, error)
	Delete(id string) error
}
