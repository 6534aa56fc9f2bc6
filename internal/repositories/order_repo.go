package repositories

import (
	"time"

	"techshop/internal/models"
)

// OrderFilter narrows and pages an order listing. UserID empty means all
// users (admin listing).
type OrderFilter struct {
	UserID        string
	Status        string
	PaymentStatus string
	Page          int
	Limit         int
}

// RevenueReport aggregates delivered-order totals over a period.
type RevenueReport struct {
	TotalRevenue      int64   `json:"totalRevenue"`
	OrdersCount       int64   `json:"ordersCount"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// OrderRepository defines the interface for order data access. Orders are
// an audit trail: there is no Delete, status changes go through Update
// after the service appends to the history.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	Update(order *models.Order) error
	List(filter OrderFilter) ([]models.Order, int64, error)
	Revenue(start, end time.Time) (*RevenueReport, error)
}
