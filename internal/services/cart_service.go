package services

import (
	"errors"
	"time"

	"techshop/internal/apperr"
	"techshop/internal/models"
	"techshop/internal/repositories"

	"github.com/google/uuid"
)

// CartService maintains the single active cart per user. The cart holds
// intent, not a reservation: adding an item validates against current
// stock but reserves nothing; the order commit re-validates. TotalPrice is
// recomputed from live catalog prices on every persist.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetActiveCart returns the user's active cart, creating an empty one on
// first use.
func (s *CartService) GetActiveCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetActive(userID)
	if err == nil {
		return cart, nil
	}
	var nf *apperr.NotFound
	if !errors.As(err, &nf) {
		return nil, err
	}

	cart = &models.Cart{
		ID:         uuid.New().String(),
		UserID:     userID,
		Status:     models.CartStatusActive,
		Items:      []models.CartItem{},
		TotalPrice: 0,
		LastActive: time.Now(),
	}
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity of a product to the cart, merging with an existing
// line. The combined quantity may not exceed current stock.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &apperr.Validation{
			Message: "invalid cart item",
			Fields:  map[string]string{"quantity": "quantity must be at least 1"},
		}
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.GetActiveCart(userID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	if i := cart.FindItem(productID); i > -1 {
		newQuantity += cart.Items[i].Quantity
	}
	if newQuantity > product.Stock {
		return nil, &apperr.InsufficientStock{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: newQuantity,
			Available: product.Stock,
		}
	}

	if i := cart.FindItem(productID); i > -1 {
		cart.Items[i].Quantity = newQuantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: product.ID,
			Quantity:  quantity,
			Image:     product.MainImage(),
			Color:     product.SpecValue("Color"),
		})
	}

	if err := s.persist(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets the quantity of an existing cart line.
func (s *CartService) UpdateItem(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &apperr.Validation{
			Message: "invalid cart item",
			Fields:  map[string]string{"quantity": "quantity must be at least 1"},
		}
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, &apperr.InsufficientStock{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: quantity,
			Available: product.Stock,
		}
	}

	cart, err := s.cartRepo.GetActive(userID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItem(productID)
	if i == -1 {
		return nil, &apperr.NotFound{Entity: "cart item", ID: productID}
	}
	cart.Items[i].Quantity = quantity

	if err := s.persist(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a line from the cart.
func (s *CartService) RemoveItem(userID, productID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetActive(userID)
	if err != nil {
		return nil, err
	}

	i := cart.FindItem(productID)
	if i == -1 {
		return nil, &apperr.NotFound{Entity: "cart item", ID: productID}
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

	if err := s.persist(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearItems empties the cart's item list. The cart document survives.
func (s *CartService) ClearItems(userID string) error {
	cart, err := s.cartRepo.GetActive(userID)
	if err != nil {
		return err
	}
	cart.Items = nil
	return s.persist(cart)
}

// PruneExpired deletes carts untouched for longer than ttl, returning how
// many were removed. Runs from the janitor goroutine in main.
func (s *CartService) PruneExpired(ttl time.Duration) (int64, error) {
	return s.cartRepo.DeleteInactiveBefore(time.Now().Add(-ttl))
}

// persist recomputes the derived total from current catalog prices,
// refreshes LastActive and saves. A line whose product has vanished from
// the catalog is a persist-time error, never a silent skip.
func (s *CartService) persist(cart *models.Cart) error {
	var total int64
	for _, item := range cart.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return err
		}
		total += product.Price * int64(item.Quantity)
	}
	cart.TotalPrice = total
	cart.LastActive = time.Now()
	return s.cartRepo.Save(cart)
}
