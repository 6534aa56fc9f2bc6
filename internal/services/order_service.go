package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"techshop/internal/apperr"
	"techshop/internal/models"
	"techshop/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher is the slice of the message broker client the services
// need. Satisfied by *rabbitmq.Client; nil disables publication.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// PlaceOrderRequest is the checkout payload. Prices are never part of it;
// they are read from the catalog at commit time.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	Notes           string                 `json:"notes"`
	CouponCode      string                 `json:"couponCode"`
}

// OrderService owns the order lifecycle: the atomic commit that turns
// purchase intent into a durable order plus stock decrement, and the
// status state machine with its audit history.
type OrderService struct {
	uow       repositories.UnitOfWork
	orderRepo repositories.OrderRepository
	cartRepo  repositories.CartRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(uow repositories.UnitOfWork, orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		uow:       uow,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		publisher: publisher,
	}
}

// PlaceOrder commits a purchase: it snapshots each product's name, price,
// image and key specs at this instant, decrements stock for every item and
// persists the order, all inside one transaction. The user's active cart
// is emptied (not deleted) in the same transaction. Any failure leaves no
// partial state: no order, no stock change, cart untouched.
func (s *OrderService) PlaceOrder(userID string, req PlaceOrderRequest) (*models.Order, error) {
	if err := s.validatePlaceOrder(userID, &req); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.uow.Execute(func(tx repositories.TxRepositories) error {
		items := make([]models.OrderItem, 0, len(req.Items))
		var subtotal int64

		for _, line := range req.Items {
			product, err := tx.Products.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < line.Quantity {
				return &apperr.InsufficientStock{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: line.Quantity,
					Available: product.Stock,
				}
			}
			items = append(items, snapshotItem(product, line.Quantity))
			subtotal += product.Price * int64(line.Quantity)
		}

		// Reserved for shipping and coupon rules.
		var shippingFee, discount int64

		order = &models.Order{
			ID:              uuid.New().String(),
			UserID:          userID,
			Items:           items,
			Status:          models.OrderStatusPending,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			Subtotal:        subtotal,
			ShippingFee:     shippingFee,
			Discount:        discount,
			Total:           subtotal + shippingFee - discount,
			CouponCode:      req.CouponCode,
			Notes:           req.Notes,
			StatusHistory:   []models.StatusHistoryEntry{},
		}

		// The conditional decrement is the authoritative check; the read
		// above only orders failures nicely. A race loser fails here and
		// rolls back every earlier decrement in this commit.
		for _, item := range items {
			if err := tx.Products.DecrementStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.Orders.Create(order); err != nil {
			return err
		}

		return clearActiveCart(tx.Carts, userID)
	})
	if err != nil {
		return nil, commitError(err)
	}

	s.publishOrderEvent("order.created", order)
	return order, nil
}

// UpdateStatus appends one entry to the order's status history and
// refreshes the cached status. There is deliberately no adjacency table:
// any status may follow any other. Side effects key off the new status;
// "paid" flips the payment channel in addition to being recorded.
func (s *OrderService) UpdateStatus(orderID, status, note, actorID string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, &apperr.Validation{
			Message: "invalid order status",
			Fields:  map[string]string{"status": fmt.Sprintf("%q is not a known status", status)},
		}
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	order.AddStatusHistory(status, note, actorID)

	now := time.Now()
	switch status {
	case models.OrderStatusCancelled:
		order.CancelReason = note
		order.CancelledAt = &now
	case models.OrderStatusDelivered:
		order.DeliveredAt = &now
	case models.OrderStatusPaid:
		order.PaymentStatus = models.PaymentStatusPaid
		order.PaymentDetails.PaymentTime = &now
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	s.publishOrderEvent("order.status_updated", order)
	return order, nil
}

// GetOrderByID retrieves a single order. Ownership checks belong to the
// handler boundary.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetUserOrders retrieves one user's orders, newest first.
func (s *OrderService) GetUserOrders(userID string, filter repositories.OrderFilter) ([]models.Order, int64, error) {
	filter.UserID = userID
	return s.orderRepo.List(filter)
}

// GetAllOrders retrieves orders across users (admin listing).
func (s *OrderService) GetAllOrders(filter repositories.OrderFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// Revenue aggregates delivered-order totals over [start, end].
func (s *OrderService) Revenue(start, end time.Time) (*repositories.RevenueReport, error) {
	return s.orderRepo.Revenue(start, end)
}

// validatePlaceOrder rejects malformed checkout input before anything is
// read or written, and fills address defaults.
func (s *OrderService) validatePlaceOrder(userID string, req *PlaceOrderRequest) error {
	fields := make(map[string]string)
	if userID == "" {
		fields["userId"] = "user is required"
	}
	if len(req.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	for i, line := range req.Items {
		if line.ProductID == "" {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "product ID is required"
		}
		if line.Quantity < 1 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be at least 1"
		}
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		fields["paymentMethod"] = fmt.Sprintf("%q is not an accepted payment method", req.PaymentMethod)
	}

	addr := &req.ShippingAddress
	for field, value := range map[string]string{
		"shippingAddress.fullName":   addr.FullName,
		"shippingAddress.phone":      addr.Phone,
		"shippingAddress.street":     addr.Street,
		"shippingAddress.city":       addr.City,
		"shippingAddress.state":      addr.State,
		"shippingAddress.postalCode": addr.PostalCode,
	} {
		if value == "" {
			fields[field] = "required"
		}
	}
	if addr.Country == "" {
		addr.Country = models.DefaultCountry
	}

	if len(fields) > 0 {
		return &apperr.Validation{Message: "invalid order request", Fields: fields}
	}
	return nil
}

// snapshotItem freezes the parts of a product an order keeps forever.
func snapshotItem(product *models.Product, quantity int) models.OrderItem {
	return models.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Image:     product.MainImage(),
		Specifications: models.ItemSpecifications{
			CPU:     product.SpecValue("CPU"),
			RAM:     product.SpecValue("RAM"),
			Storage: product.SpecValue("Storage"),
			Color:   product.SpecValue("Color"),
		},
	}
}

// clearActiveCart empties the user's active cart while keeping the cart
// document itself. A user checking out without a cart is fine.
func clearActiveCart(carts repositories.CartRepository, userID string) error {
	cart, err := carts.GetActive(userID)
	if err != nil {
		var nf *apperr.NotFound
		if errors.As(err, &nf) {
			return nil
		}
		return err
	}
	cart.Items = nil
	cart.TotalPrice = 0
	cart.LastActive = time.Now()
	return carts.Save(cart)
}

// commitError passes business failures through untouched and wraps
// store-level ones so the caller knows the whole commit is retryable.
func commitError(err error) error {
	var nf *apperr.NotFound
	var is *apperr.InsufficientStock
	var ve *apperr.Validation
	if errors.As(err, &nf) || errors.As(err, &is) || errors.As(err, &ve) {
		return err
	}
	return &apperr.TransactionAborted{Err: err}
}

// publishOrderEvent emits a broker event, best effort. A publish failure
// never fails the operation that triggered it.
func (s *OrderService) publishOrderEvent(routingKey string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"status":  order.Status,
		"total":   order.Total,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", routingKey, order.ID, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}
