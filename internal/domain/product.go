package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus tells the storefront whether a product can be ordered.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Product represents an item in the furniture catalog.
//
// Price is the base price and is always required. DiscountedPrice, when set,
// replaces the base price for non-member display. BozPlusPrice is shown to
// everyone but only applies to active BOZ PLUS members.
type Product struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	Name            string              `json:"name" db:"name"`
	Description     string              `json:"description" db:"description"`
	CategoryID      uuid.UUID           `json:"category_id" db:"category_id"`
	Price           decimal.Decimal     `json:"price" db:"price"`
	DiscountedPrice decimal.NullDecimal `json:"discounted_price" db:"discounted_price"`
	BozPlusPrice    decimal.NullDecimal `json:"boz_plus_price" db:"boz_plus_price"`
	ImageURL        string              `json:"image_url" db:"image_url"`
	StockStatus     StockStatus         `json:"stock_status" db:"stock_status"`
	StockAmount     *int                `json:"stock_amount,omitempty" db:"stock_amount"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

// EffectivePrice returns the price a non-member pays: the discounted price
// when one is set and positive, the base price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice.Valid && p.DiscountedPrice.Decimal.IsPositive() {
		return p.DiscountedPrice.Decimal
	}
	return p.Price
}

// Orderable reports whether the product can currently be added to a cart.
func (p *Product) Orderable() bool {
	return p.StockStatus == StockStatusInStock
}

// Category represents a product category shown in storefront navigation.
// DisplayOrder defines the navigation sequence; ties keep insertion order.
type Category struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
