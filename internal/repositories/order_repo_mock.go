package repositories

import (
	"sort"
	"sync"
	"time"

	"techshop/internal/apperr"
	"techshop/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, &apperr.NotFound{Entity: "order", ID: id}
	}
	return &order, nil
}

// Update replaces the stored order.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.orders[order.ID]
	if !ok {
		return &apperr.NotFound{Entity: "order", ID: order.ID}
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// List returns orders matching the filter, newest first.
func (r *MockOrderRepository) List(filter OrderFilter) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && order.PaymentStatus != filter.PaymentStatus {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	page, limit := normalizePage(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Revenue aggregates delivered orders created inside [start, end].
func (r *MockOrderRepository) Revenue(start, end time.Time) (*RevenueReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var report RevenueReport
	for _, order := range r.orders {
		if order.Status != models.OrderStatusDelivered {
			continue
		}
		if order.CreatedAt.Before(start) || order.CreatedAt.After(end) {
			continue
		}
		report.TotalRevenue += order.Total
		report.OrdersCount++
	}
	if report.OrdersCount > 0 {
		report.AverageOrderValue = float64(report.TotalRevenue) / float64(report.OrdersCount)
	}
	return &report, nil
}

func (r *MockOrderRepository) snapshot() map[string]models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := make(map[string]models.Order, len(r.orders))
	for k, v := range r.orders {
		snap[k] = v
	}
	return snap
}

func (r *MockOrderRepository) restore(snap map[string]models.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = snap
}
