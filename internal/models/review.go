package models

import "gorm.io/gorm"

// Review is a user's rating of a product. Creating or deleting one
// recomputes the product's AverageRating.
type Review struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string `json:"user_id" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"index;type:varchar(36)"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"omitempty,max=2000"`
	gorm.Model
}
