package handlers

import (
	"log"
	"time"

	"techshop/internal/middleware"
	"techshop/internal/repositories"
	"techshop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Get("/all", middleware.AdminRequired(), h.HandleGetAllOrders)
	orderRoutes.Get("/stats", middleware.AdminRequired(), h.HandleGetRevenue)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", middleware.AdminRequired(), h.HandleUpdateOrderStatus)
}

// HandleCreateOrder commits a new order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.PlaceOrder(userID, req)
	if err != nil {
		log.Printf("Error creating order for user %s: %v", userID, err)
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetMyOrders lists the authenticated user's orders, paginated.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID, _ := currentUser(c)
	filter := repositories.OrderFilter{
		Status: c.Query("status"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 10),
	}

	orders, total, err := h.service.GetUserOrders(userID, filter)
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// HandleGetAllOrders lists orders across all users. Admin only.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	filter := repositories.OrderFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
		Page:          c.QueryInt("page", 1),
		Limit:         c.QueryInt("limit", 10),
	}

	orders, total, err := h.service.GetAllOrders(filter)
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// HandleGetOrderByID retrieves a single order. Users may read only their
// own orders; admins may read any.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	userID, isAdmin := currentUser(c)
	orderID := c.Params("id")

	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return writeError(c, err)
	}

	if order.UserID != userID && !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You don't have permission to view this order",
		})
	}

	return c.JSON(order)
}

// HandleUpdateOrderStatus drives the order state machine. Admin only; the
// acting admin is recorded on the history entry.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	actorID, _ := currentUser(c)
	orderID := c.Params("id")

	var updateData struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.UpdateStatus(orderID, updateData.Status, updateData.Note, actorID)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return writeError(c, err)
	}

	return c.JSON(order)
}

// HandleGetRevenue aggregates delivered-order revenue for a period. Admin
// only.
func (h *OrderHandler) HandleGetRevenue(c *fiber.Ctx) error {
	start, err := time.Parse("2006-01-02", c.Query("startDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "startDate is required as YYYY-MM-DD",
		})
	}
	end, err := time.Parse("2006-01-02", c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "endDate is required as YYYY-MM-DD",
		})
	}

	report, err := h.service.Revenue(start, end.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		log.Printf("Error aggregating revenue: %v", err)
		return writeError(c, err)
	}

	return c.JSON(report)
}
