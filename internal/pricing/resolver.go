// Package pricing holds the pure price computations of the storefront:
// resolving the unit price a viewer pays for a product, aggregating cart
// lines, and computing shipping. Nothing in this package touches the
// database or the clock; callers pass in the product, the membership view
// and the current time.
package pricing

import (
	"errors"
	"time"

	"boz-store/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingBasePrice flags a product with no positive base price.
	// Such a product is a data anomaly and must render as unavailable,
	// never as free.
	ErrMissingBasePrice = errors.New("product has no base price")

	// ErrInvalidMemberPrice flags a stored BOZ PLUS price above the price
	// non-members already pay. Write paths reject it; if a row slips
	// through, the resolver refuses to quote it.
	ErrInvalidMemberPrice = errors.New("member price exceeds effective price")
)

// Quote is the resolved price presentation for one product and one viewer.
type Quote struct {
	// UnitPrice is the price the viewer pays per unit.
	UnitPrice decimal.Decimal `json:"unit_price"`
	// StrikePrice is the crossed-out comparison price, when there is one.
	StrikePrice *decimal.Decimal `json:"strike_price,omitempty"`
	// IsMemberPrice is true when UnitPrice is the BOZ PLUS member price.
	IsMemberPrice bool `json:"is_member_price"`
}

// Resolve computes the price quote for product as seen by a viewer with the
// given membership, as of now.
//
// An active member sees the BOZ PLUS price when the product has one, struck
// against the price everyone else pays. Everyone else sees the discounted
// price when present, struck against the base price.
func Resolve(product *domain.Product, m domain.Membership, now time.Time) (Quote, error) {
	if !product.Price.IsPositive() {
		return Quote{}, ErrMissingBasePrice
	}

	effective := product.EffectivePrice()

	if product.BozPlusPrice.Valid {
		member := product.BozPlusPrice.Decimal
		if member.GreaterThan(effective) {
			return Quote{}, ErrInvalidMemberPrice
		}
		if m.IsActive(now) {
			strike := effective
			return Quote{
				UnitPrice:     member,
				StrikePrice:   &strike,
				IsMemberPrice: true,
			}, nil
		}
	}

	q := Quote{UnitPrice: effective}
	if product.DiscountedPrice.Valid && product.DiscountedPrice.Decimal.IsPositive() {
		strike := product.Price
		q.StrikePrice = &strike
	}
	return q, nil
}
