package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Slug             string         `gorm:"uniqueIndex" json:"slug"`
	Title            string         `json:"title"`
	ShortDescription string         `json:"short_description"`
	LongDescription  string         `json:"long_description"`
	Price            float64        `json:"price"`
	Currency         string         `json:"currency"`
	Image            string         `json:"image"`
	Gallery          pq.StringArray `gorm:"type:text[]" json:"gallery"`
	InStock          bool           `json:"in_stock"`
	RatingAverage    float64        `json:"rating_average"`
	RatingCount      int            `json:"rating_count"`
	CategoryID       *uuid.UUID     `gorm:"type:uuid" json:"category_id"`
	Category         *Category      `json:"category,omitempty"`

	// InWishlist is filled per request for authenticated callers; not stored.
	InWishlist bool `gorm:"-" json:"in_wishlist"`
}

type Category struct {
	BaseModel
	Name        string    `json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Description string    `json:"description"`
	CardImage   string    `json:"card_image"`
	Products    []Product `json:"products,omitempty"`
}
