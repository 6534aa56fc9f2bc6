package services_test

import (
	"sync"
	"testing"
	"time"

	"techshop/internal/apperr"
	"techshop/internal/models"
	"techshop/internal/repositories"
	"techshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderFixture wires an OrderService over the in-memory repositories with
// a snapshot/rollback unit of work, the same atomicity contract the
// database transaction gives the real service.
type orderFixture struct {
	service  *services.OrderService
	products *repositories.MockProductRepository
	orders   *repositories.MockOrderRepository
	carts    *repositories.MockCartRepository
}

func newOrderFixture() *orderFixture {
	products := repositories.NewMockProductRepository()
	orders := repositories.NewMockOrderRepository()
	carts := repositories.NewMockCartRepository()
	uow := repositories.NewMockUnitOfWork(products, orders, carts)
	return &orderFixture{
		service:  services.NewOrderService(uow, orders, carts, nil),
		products: products,
		orders:   orders,
		carts:    carts,
	}
}

func seedProduct(t *testing.T, repo *repositories.MockProductRepository, id, name string, price int64, stock int) {
	t.Helper()
	err := repo.Create(&models.Product{
		ID:          id,
		Name:        name,
		Description: "seeded for tests",
		Category:    "Laptop",
		SubCategory: "Gaming",
		Brand:       "Acme",
		Price:       price,
		Stock:       stock,
		Images:      []string{"https://img.example/" + id + ".jpg"},
		Specifications: []models.Specification{
			{Type: "CPU", Title: "Processor", Description: "Ryzen 7 7840HS"},
			{Type: "RAM", Title: "Memory", Description: "32GB DDR5"},
			{Type: "Storage", Title: "Disk", Description: "1TB NVMe"},
		},
	})
	require.NoError(t, err)
}

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:   "Nguyen Van A",
		Phone:      "0900000000",
		Street:     "12 Ly Thuong Kiet",
		City:       "Hanoi",
		State:      "Hanoi",
		PostalCode: "100000",
	}
}

func placeRequest(items ...services.OrderItemRequest) services.PlaceOrderRequest {
	return services.PlaceOrderRequest{
		Items:           items,
		ShippingAddress: validAddress(),
		PaymentMethod:   "COD",
	}
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 5)

	// The user has an active cart that should be emptied by the commit.
	require.NoError(t, f.carts.Save(&models.Cart{
		ID:     "cart-1",
		UserID: "user-1",
		Status: models.CartStatusActive,
		Items:  []models.CartItem{{ProductID: "p1", Quantity: 2}},
	}))

	order, err := f.service.PlaceOrder("user-1", placeRequest(
		services.OrderItemRequest{ProductID: "p1", Quantity: 2},
	))
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "user-1", order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, int64(200), order.Subtotal)
	assert.Equal(t, int64(200), order.Total)
	assert.Empty(t, order.StatusHistory)
	assert.Equal(t, "Vietnam", order.ShippingAddress.Country) // defaulted

	// The item is a full snapshot of the product at commit time.
	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "Gaming Laptop", item.Name)
	assert.Equal(t, int64(100), item.Price)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "https://img.example/p1.jpg", item.Image)
	assert.Equal(t, "Ryzen 7 7840HS", item.Specifications.CPU)
	assert.Equal(t, "32GB DDR5", item.Specifications.RAM)
	assert.Equal(t, "1TB NVMe", item.Specifications.Storage)

	// Stock decremented, order durable.
	product, err := f.products.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)

	persisted, err := f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, persisted.Total)

	// The cart was emptied, not deleted.
	cart, err := f.carts.GetActive("user-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cart.ID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.TotalPrice)
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 3)

	order, err := f.service.PlaceOrder("user-1", placeRequest(
		services.OrderItemRequest{ProductID: "p1", Quantity: 10},
	))
	require.Error(t, err)
	assert.Nil(t, order)

	var stockErr *apperr.InsufficientStock
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p1", stockErr.ProductID)
	assert.Equal(t, 10, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	// No order persisted, stock untouched.
	product, err := f.products.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock)

	orders, total, err := f.orders.List(repositories.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Zero(t, total)
}

func TestOrderService_PlaceOrder_MidCommitFailureRollsBack(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 5)
	seedProduct(t, f.products, "p2", "Mechanical Keyboard", 50, 1)

	// p1 would succeed; p2 fails, so p1's decrement must be undone.
	_, err := f.service.PlaceOrder("user-1", placeRequest(
		services.OrderItemRequest{ProductID: "p1", Quantity: 2},
		services.OrderItemRequest{ProductID: "p2", Quantity: 5},
	))
	var stockErr *apperr.InsufficientStock
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p2", stockErr.ProductID)

	p1, err := f.products.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p1.Stock)
	p2, err := f.products.GetByID("p2")
	require.NoError(t, err)
	assert.Equal(t, 1, p2.Stock)
}

func TestOrderService_PlaceOrder_ProductNotFound(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 5)

	_, err := f.service.PlaceOrder("user-1", placeRequest(
		services.OrderItemRequest{ProductID: "p1", Quantity: 1},
		services.OrderItemRequest{ProductID: "missing", Quantity: 1},
	))
	var notFound *apperr.NotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)

	// Whole commit aborted; p1 untouched and no order exists.
	p1, err := f.products.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p1.Stock)
	orders, _, err := f.orders.List(repositories.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 5)

	var validationErr *apperr.Validation

	// Empty item list.
	_, err := f.service.PlaceOrder("user-1", placeRequest())
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "items")

	// Unknown payment method.
	req := placeRequest(services.OrderItemRequest{ProductID: "p1", Quantity: 1})
	req.PaymentMethod = "paypal"
	_, err = f.service.PlaceOrder("user-1", req)
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "paymentMethod")

	// Missing address fields.
	req = placeRequest(services.OrderItemRequest{ProductID: "p1", Quantity: 1})
	req.ShippingAddress.Phone = ""
	req.ShippingAddress.PostalCode = ""
	_, err = f.service.PlaceOrder("user-1", req)
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "shippingAddress.phone")
	assert.Contains(t, validationErr.Fields, "shippingAddress.postalCode")

	// Zero quantity.
	req = placeRequest(services.OrderItemRequest{ProductID: "p1", Quantity: 0})
	_, err = f.service.PlaceOrder("user-1", req)
	require.ErrorAs(t, err, &validationErr)

	// Validation failures never touch stock.
	p1, err := f.products.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p1.Stock)
}

func TestOrderService_PlaceOrder_ConcurrentCommitsSingleWinner(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 1)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			_, err := f.service.PlaceOrder(user, placeRequest(
				services.OrderItemRequest{ProductID: "p1", Quantity: 1},
			))
			results <- err
		}("user-" + string(rune('a'+i)))
	}
	wg.Wait()
	close(results)

	var successes, stockFailures int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var stockErr *apperr.InsufficientStock
		require.ErrorAs(t, err, &stockErr)
		stockFailures++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, stockFailures)

	product, err := f.products.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock) // never negative
}

func TestOrderService_SnapshotSurvivesCatalogChanges(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 5)

	order, err := f.service.PlaceOrder("user-1", placeRequest(
		services.OrderItemRequest{ProductID: "p1", Quantity: 1},
	))
	require.NoError(t, err)

	// Reprice and rename the product after the commit.
	product, err := f.products.GetByID("p1")
	require.NoError(t, err)
	product.Price = 999
	product.Name = "Renamed Laptop"
	product.Specifications = nil
	require.NoError(t, f.products.Update(product))

	persisted, err := f.orders.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gaming Laptop", persisted.Items[0].Name)
	assert.Equal(t, int64(100), persisted.Items[0].Price)
	assert.Equal(t, "Ryzen 7 7840HS", persisted.Items[0].Specifications.CPU)
	assert.Equal(t, int64(100), persisted.Total)
}

func TestOrderService_UpdateStatus_AppendsHistory(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 5)

	order, err := f.service.PlaceOrder("user-1", placeRequest(
		services.OrderItemRequest{ProductID: "p1", Quantity: 1},
	))
	require.NoError(t, err)
	require.Empty(t, order.StatusHistory)

	updated, err := f.service.UpdateStatus(order.ID, models.OrderStatusConfirmed, "payment verified", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)
	require.Len(t, updated.StatusHistory, 1)
	assert.Equal(t, models.OrderStatusConfirmed, updated.StatusHistory[0].Status)
	assert.Equal(t, "payment verified", updated.StatusHistory[0].Note)
	assert.Equal(t, "admin-1", updated.StatusHistory[0].UpdatedBy)

	// Every transition appends exactly one entry and the cached status
	// always matches the latest entry.
	updated, err = f.service.UpdateStatus(order.ID, models.OrderStatusProcessing, "", "admin-1")
	require.NoError(t, err)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, updated.Status, updated.StatusHistory[len(updated.StatusHistory)-1].Status)
}

func TestOrderService_UpdateStatus_SideEffects(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 5)

	order, err := f.service.PlaceOrder("user-1", placeRequest(
		services.OrderItemRequest{ProductID: "p1", Quantity: 1},
	))
	require.NoError(t, err)

	cancelled, err := f.service.UpdateStatus(order.ID, models.OrderStatusCancelled, "customer request", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "customer request", cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)
	assert.WithinDuration(t, time.Now(), *cancelled.CancelledAt, 5*time.Second)
	require.Len(t, cancelled.StatusHistory, 1)

	// "delivered" stamps DeliveredAt.
	delivered, err := f.service.UpdateStatus(order.ID, models.OrderStatusDelivered, "", "admin-1")
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)

	// "paid" flips the payment channel alongside the history entry.
	paid, err := f.service.UpdateStatus(order.ID, models.OrderStatusPaid, "bank transfer", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PaymentDetails.PaymentTime)
	require.Len(t, paid.StatusHistory, 3)
}

func TestOrderService_UpdateStatus_Errors(t *testing.T) {
	f := newOrderFixture()

	var validationErr *apperr.Validation
	_, err := f.service.UpdateStatus("any", "teleported", "", "admin-1")
	require.ErrorAs(t, err, &validationErr)

	var notFound *apperr.NotFound
	_, err = f.service.UpdateStatus("missing", models.OrderStatusConfirmed, "", "admin-1")
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "order", notFound.Entity)
}

func TestOrderService_Revenue(t *testing.T) {
	f := newOrderFixture()
	seedProduct(t, f.products, "p1", "Gaming Laptop", 100, 10)

	first, err := f.service.PlaceOrder("user-1", placeRequest(
		services.OrderItemRequest{ProductID: "p1", Quantity: 2},
	))
	require.NoError(t, err)
	second, err := f.service.PlaceOrder("user-2", placeRequest(
		services.OrderItemRequest{ProductID: "p1", Quantity: 1},
	))
	require.NoError(t, err)

	// Only delivered orders count toward revenue.
	_, err = f.service.UpdateStatus(first.ID, models.OrderStatusDelivered, "", "admin-1")
	require.NoError(t, err)
	_ = second

	report, err := f.service.Revenue(time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(200), report.TotalRevenue)
	assert.Equal(t, int64(1), report.OrdersCount)
	assert.Equal(t, float64(200), report.AverageOrderValue)
}
