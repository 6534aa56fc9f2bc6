package handlers

import (
	"errors"

	"techshop/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// writeError maps the typed business errors to HTTP responses so every
// handler reports failures the same way. Unrecognized errors become 500s.
func writeError(c *fiber.Ctx, err error) error {
	var nf *apperr.NotFound
	var is *apperr.InsufficientStock
	var ve *apperr.Validation
	var ta *apperr.TransactionAborted

	switch {
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"error":   err.Error(),
		})
	case errors.As(err, &is):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":   "Insufficient stock",
			"error":     err.Error(),
			"available": is.Available,
			"productId": is.ProductID,
		})
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   ve.Message,
			"fields":  ve.Fields,
		})
	case errors.As(err, &ta):
		// The whole commit rolled back; the client may retry it as-is.
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Operation could not be completed, please retry",
			"error":   err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}

// currentUser pulls the identity the JWT middleware stored on the context.
func currentUser(c *fiber.Ctx) (userID string, isAdmin bool) {
	userID, _ = c.Locals("user_id").(string)
	isAdmin, _ = c.Locals("is_admin").(bool)
	return userID, isAdmin
}
