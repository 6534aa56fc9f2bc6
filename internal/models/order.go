package models

import (
	"time"

	"gorm.io/gorm"
)

// Fulfillment statuses an order moves through. The source model also
// accepts "paid" through the same transition operation; it flips the
// payment channel rather than fulfillment (see OrderService.UpdateStatus).
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
	OrderStatusPaid       = "paid"
)

// Payment statuses, orthogonal to fulfillment.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// PaymentMethods accepted at checkout.
var PaymentMethods = []string{"COD", "banking", "credit_card", "momo", "zalopay"}

// OrderStatuses are the values UpdateStatus accepts. There is no
// adjacency table: any status may follow any other, matching the store's
// established behavior.
var OrderStatuses = []string{
	OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
	OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled,
	OrderStatusRefunded, OrderStatusPaid,
}

// ItemSpecifications is the subset of product specs frozen onto an order
// item at commit time.
type ItemSpecifications struct {
	CPU     string `json:"cpu,omitempty"`
	RAM     string `json:"ram,omitempty"`
	Storage string `json:"storage,omitempty"`
	Color   string `json:"color,omitempty"`
}

// OrderItem is an immutable snapshot of a purchased product. Name, price,
// image and specifications are copied at commit time and stay untouched by
// later catalog changes.
type OrderItem struct {
	ProductID      string             `json:"product_id"`
	Name           string             `json:"name"`
	Price          int64              `json:"price"`
	Quantity       int                `json:"quantity"`
	Image          string             `json:"image,omitempty"`
	Specifications ItemSpecifications `json:"specifications"`
}

// ShippingAddress is where the order is delivered. Country defaults when
// the client omits it.
type ShippingAddress struct {
	FullName   string `json:"fullName" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country"`
}

// DefaultCountry fills in ShippingAddress.Country when absent.
const DefaultCountry = "Vietnam"

// PaymentDetails records the payment transaction once one happens.
type PaymentDetails struct {
	TransactionID string     `json:"transactionId,omitempty"`
	PaymentTime   *time.Time `json:"paymentTime,omitempty"`
	Bank          string     `json:"bank,omitempty"`
	CardLastFour  string     `json:"cardLastFour,omitempty"`
}

// StatusHistoryEntry is one append-only audit record of a status change.
// The history is authoritative; Order.Status is a cache of the last entry.
type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Date      time.Time `json:"date"`
	Note      string    `json:"note,omitempty"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// Order is a durable record of a committed purchase. Orders are never
// deleted, only re-statused; Total is computed once at commit and never
// recomputed.
type Order struct {
	ID              string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string               `json:"user_id" gorm:"index;type:varchar(36)"`
	Items           []OrderItem          `json:"items" gorm:"serializer:json"`
	Status          string               `json:"status" gorm:"index;default:pending"`
	ShippingAddress ShippingAddress      `json:"shippingAddress" gorm:"serializer:json"`
	PaymentMethod   string               `json:"paymentMethod"`
	PaymentStatus   string               `json:"paymentStatus" gorm:"default:pending"`
	PaymentDetails  PaymentDetails       `json:"paymentDetails" gorm:"serializer:json"`
	Subtotal        int64                `json:"subtotal"`
	ShippingFee     int64                `json:"shippingFee"`
	Discount        int64                `json:"discount"`
	Total           int64                `json:"total"`
	CouponCode      string               `json:"couponCode,omitempty"`
	Notes           string               `json:"notes,omitempty"`
	TrackingNumber  string               `json:"trackingNumber,omitempty"`
	CancelReason    string               `json:"cancelReason,omitempty"`
	CancelledAt     *time.Time           `json:"cancelledAt,omitempty"`
	DeliveredAt     *time.Time           `json:"deliveredAt,omitempty"`
	StatusHistory   []StatusHistoryEntry `json:"statusHistory" gorm:"serializer:json"`
	gorm.Model
}

// AddStatusHistory appends one audit entry and refreshes the cached
// status. It does not persist; the caller saves the order.
func (o *Order) AddStatusHistory(status, note, updatedBy string) {
	o.StatusHistory = append(o.StatusHistory, StatusHistoryEntry{
		Status:    status,
		Date:      time.Now(),
		Note:      note,
		UpdatedBy: updatedBy,
	})
	o.Status = status
}

// ValidOrderStatus reports whether s is a value UpdateStatus accepts.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}
