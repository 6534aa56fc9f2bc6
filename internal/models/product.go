package models

import "gorm.io/gorm"

// Categories a product may belong to. A laptop additionally requires a
// sub-category.
var ProductCategories = []string{"Laptop", "Pc", "Phone", "Accessory", "Tablet", "Other"}

// Sub-categories, only meaningful (and mandatory) for the Laptop category.
var LaptopSubCategories = []string{
	"Gaming", "Office", "Ultrabook", "2-in-1", "Workstation", "Budget", "Student", "Business",
}

// Specification types accepted in a product's specification list.
var SpecificationTypes = []string{
	"CPU", "RAM", "Storage", "Display", "Battery", "Camera", "OS", "GPU",
	"Connectivity", "Ports", "Audio",
}

// Specification is a single spec sheet entry, e.g. {CPU, "Processor", "Ryzen 7 7840HS"}.
type Specification struct {
	Type        string `json:"type" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Product represents a catalog item. Prices are integer amounts in the
// store currency's smallest unit. Stock is only ever decremented through a
// successful order commit.
type Product struct {
	ID             string          `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string          `json:"name" validate:"required,min=2,max=200"`
	Description    string          `json:"description" validate:"required,max=2000"`
	Category       string          `json:"category" validate:"required"`
	SubCategory    string          `json:"subCategory,omitempty"`
	Brand          string          `json:"brand" validate:"required"`
	Price          int64           `json:"price" validate:"gte=0"`
	Stock          int             `json:"stock" validate:"gte=0"`
	Images         []string        `json:"images" gorm:"serializer:json" validate:"required,min=1"`
	Specifications []Specification `json:"specifications" gorm:"serializer:json" validate:"omitempty,dive"`
	AverageRating  float64         `json:"averageRating"`
	IsFeatured     bool            `json:"isFeatured"`
	gorm.Model     // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// SpecValue returns the description of the first specification entry with
// the given type, or "" if the product has none. Used when snapshotting
// order items.
func (p *Product) SpecValue(specType string) string {
	for _, s := range p.Specifications {
		if s.Type == specType {
			return s.Description
		}
	}
	return ""
}

// MainImage returns the first catalog image, the one cached on cart lines
// and order snapshots.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ValidCategory reports whether c is a known product category.
func ValidCategory(c string) bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidLaptopSubCategory reports whether s is a known laptop sub-category.
func ValidLaptopSubCategory(s string) bool {
	for _, v := range LaptopSubCategories {
		if v == s {
			return true
		}
	}
	return false
}

// ValidSpecificationType reports whether t is a known specification type.
func ValidSpecificationType(t string) bool {
	for _, v := range SpecificationTypes {
		if v == t {
			return true
		}
	}
	return false
}
