package handlers

import (
	"log"

	"techshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:productId", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart returns the user's active cart, creating it on first use.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	cart, err := h.service.GetActiveCart(userID)
	if err != nil {
		log.Printf("Error getting cart for user %s: %v", userID, err)
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var body struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing add-to-cart body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if body.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}

	cart, err := h.service.AddItem(userID, body.ProductID, body.Quantity)
	if err != nil {
		log.Printf("Error adding product %s to cart for user %s: %v", body.ProductID, userID, err)
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// HandleUpdateItem sets the quantity of an existing cart line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	productID := c.Params("productId")

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		log.Printf("Error parsing update-cart-item body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	cart, err := h.service.UpdateItem(userID, productID, body.Quantity)
	if err != nil {
		log.Printf("Error updating product %s in cart for user %s: %v", productID, userID, err)
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	productID := c.Params("productId")

	cart, err := h.service.RemoveItem(userID, productID)
	if err != nil {
		log.Printf("Error removing product %s from cart for user %s: %v", productID, userID, err)
		return writeError(c, err)
	}
	return c.JSON(cart)
}

// HandleClearCart empties the cart's item list. The cart itself survives.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	if err := h.service.ClearItems(userID); err != nil {
		log.Printf("Error clearing cart for user %s: %v", userID, err)
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
