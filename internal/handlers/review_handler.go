package handlers

import (
	"log"

	"techshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	service *services.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

// RegisterRoutes registers the review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/products/:id/reviews", h.HandleAddReview)
	router.Get("/products/:id/reviews", h.HandleGetProductReviews)
	router.Get("/reviews/mine", h.HandleGetMyReviews)
	router.Delete("/reviews/:id", h.HandleDeleteReview)
}

// HandleAddReview creates a review for a product.
func (h *ReviewHandler) HandleAddReview(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	productID := c.Params("id")

	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing review body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	review, err := h.service.AddReview(userID, productID, body.Rating, body.Comment)
	if err != nil {
		log.Printf("Error adding review for product %s: %v", productID, err)
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// HandleGetProductReviews lists all reviews of a product.
func (h *ReviewHandler) HandleGetProductReviews(c *fiber.Ctx) error {
	productID := c.Params("id")
	reviews, err := h.service.GetReviewsByProduct(productID)
	if err != nil {
		log.Printf("Error listing reviews for product %s: %v", productID, err)
		return writeError(c, err)
	}
	return c.JSON(reviews)
}

// HandleGetMyReviews lists the authenticated user's own reviews.
func (h *ReviewHandler) HandleGetMyReviews(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	reviews, err := h.service.GetReviewsByUser(userID)
	if err != nil {
		log.Printf("Error listing reviews for user %s: %v", userID, err)
		return writeError(c, err)
	}
	return c.JSON(reviews)
}

// HandleDeleteReview removes the authenticated user's own review.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	reviewID := c.Params("id")

	if err := h.service.DeleteReview(reviewID, userID); err != nil {
		log.Printf("Error deleting review %s: %v", reviewID, err)
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Review deleted",
	})
}
