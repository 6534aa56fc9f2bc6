package services

import (
	"techshop/internal/apperr"
	"techshop/internal/models"
	"techshop/internal/repositories"

	"github.com/google/uuid"
)

// ReviewService handles product reviews and keeps each product's
// AverageRating in step with them.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, productRepo repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

// AddReview creates a review and recomputes the product's average rating.
func (s *ReviewService) AddReview(userID, productID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, &apperr.Validation{
			Message: "invalid review",
			Fields:  map[string]string{"rating": "rating must be between 1 and 5"},
		}
	}

	if _, err := s.productRepo.GetByID(productID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	if err := s.refreshAverageRating(productID); err != nil {
		return nil, err
	}
	return review, nil
}

// GetReviewsByProduct retrieves all reviews for a product.
func (s *ReviewService) GetReviewsByProduct(productID string) ([]models.Review, error) {
	return s.reviewRepo.ListByProduct(productID)
}

// GetReviewsByUser retrieves all reviews written by a user.
func (s *ReviewService) GetReviewsByUser(userID string) ([]models.Review, error) {
	return s.reviewRepo.ListByUser(userID)
}

// DeleteReview removes a user's own review and recomputes the product's
// average rating.
func (s *ReviewService) DeleteReview(reviewID, userID string) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return &apperr.NotFound{Entity: "review", ID: reviewID}
	}
	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}
	return s.refreshAverageRating(review.ProductID)
}

func (s *ReviewService) refreshAverageRating(productID string) error {
	reviews, err := s.reviewRepo.ListByProduct(productID)
	if err != nil {
		return err
	}

	var average float64
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		average = float64(sum) / float64(len(reviews))
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	product.AverageRating = average
	return s.productRepo.Update(product)
}
