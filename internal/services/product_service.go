package services

import (
	"errors"
	"fmt"

	"techshop/internal/apperr"
	"techshop/internal/models"
	"techshop/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
	}
}

// ListProducts retrieves products matching the filter plus the total count.
func (s *ProductService) ListProducts(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct validates and creates a new product. A (name, brand) pair
// may exist only once in the catalog.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.validateProduct(product); err != nil {
		return err
	}

	existing, err := s.repo.GetByNameAndBrand(product.Name, product.Brand)
	var nf *apperr.NotFound
	if err != nil && !errors.As(err, &nf) {
		return err
	}
	if existing != nil {
		return &apperr.Validation{
			Message: "a product with this name and brand already exists",
			Fields:  map[string]string{"name": product.Name, "brand": product.Brand},
		}
	}

	return s.repo.Create(product)
}

// CreateBulkProducts creates several products, stopping at the first
// failure.
func (s *ProductService) CreateBulkProducts(products []models.Product) error {
	for i := range products {
		if err := s.CreateProduct(&products[i]); err != nil {
			return fmt.Errorf("product %d (%s): %w", i, products[i].Name, err)
		}
	}
	return nil
}

// UpdateProduct validates and updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.validateProduct(product); err != nil {
		return err
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// validateProduct combines struct-tag validation with the category rules
// the tags cannot express: the category enum, the laptop/sub-category
// coupling and the specification type enum.
func (s *ProductService) validateProduct(product *models.Product) error {
	fields := make(map[string]string)

	if err := s.validate.Struct(product); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, e := range validationErrors {
				fields[e.Field()] = fmt.Sprintf("failed on the '%s' tag", e.Tag())
			}
		} else {
			return fmt.Errorf("product validation: %w", err)
		}
	}

	if product.Category != "" && !models.ValidCategory(product.Category) {
		fields["category"] = fmt.Sprintf("%q is not a known category", product.Category)
	}
	if product.Category == "Laptop" {
		if product.SubCategory == "" {
			fields["subCategory"] = "sub-category is required for laptops"
		} else if !models.ValidLaptopSubCategory(product.SubCategory) {
			fields["subCategory"] = fmt.Sprintf("%q is not a known laptop sub-category", product.SubCategory)
		}
	}
	for i, spec := range product.Specifications {
		if !models.ValidSpecificationType(spec.Type) {
			fields[fmt.Sprintf("specifications[%d].type", i)] = fmt.Sprintf("%q is not a known specification type", spec.Type)
		}
	}

	if len(fields) > 0 {
		return &apperr.Validation{Message: "invalid product", Fields: fields}
	}
	return nil
}
