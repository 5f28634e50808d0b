package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's cart. UnitPrice and the product display
// fields are snapshotted when the line is created so the cart can render
// without refetching the catalog; the snapshot also freezes the price the
// line will be charged at.
type CartItem struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Quantity int       `json:"quantity" db:"quantity"`

	ProductID       uuid.UUID           `json:"product_id" db:"product_id"`
	ProductName     string              `json:"product_name" db:"product_name"`
	ImageURL        string              `json:"image_url" db:"image_url"`
	Price           decimal.Decimal     `json:"price" db:"price"`
	DiscountedPrice decimal.NullDecimal `json:"discounted_price" db:"discounted_price"`
	BozPlusPrice    decimal.NullDecimal `json:"boz_plus_price" db:"boz_plus_price"`
	UnitPrice       decimal.Decimal     `json:"unit_price" db:"unit_price"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Subtotal returns the line amount: resolved unit price times quantity.
func (c CartItem) Subtotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
