package domain

import (
	"time"
)

// Field length limits carried over from the storefront contract.
const (
	MaxPriceDigits = 6
	MaxStockDigits = 3
)

// ProductImage is a stored image reference: the provider-side public ID
// plus the servable URL.
type ProductImage struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Product represents a product in the catalog.
//
// Ratings and NumOfReviews are derived values maintained alongside the
// review set and must never be written independently of it.
type Product struct {
	ID           string         `json:"_id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	SalePrice    float64        `json:"salePrice,omitempty"`
	Ratings      float64        `json:"ratings"`
	Images       []ProductImage `json:"images"`
	Category     string         `json:"category"`
	Stock        int            `json:"stock"`
	NumOfReviews int            `json:"numOfReviews"`
	Reviews      []Review       `json:"reviews"`
	CreatedBy    string         `json:"createdBy"`
	CreatedAt    time.Time      `json:"createdAt"`
}
