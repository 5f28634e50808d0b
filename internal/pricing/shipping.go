package pricing

import (
	"time"

	"boz-store/internal/domain"

	"github.com/shopspring/decimal"
)

// Default shipping parameters. The deployed values come from configuration;
// these back the zero-config path and tests.
const (
	DefaultFreeShippingThreshold = 500
	DefaultFlatShippingFee       = 100
)

// ShippingCalculator computes the shipping cost of a checkout from its
// pre-shipping subtotal. Both knobs are business-configured.
type ShippingCalculator struct {
	// FreeThreshold is the subtotal at or above which shipping is free.
	FreeThreshold decimal.Decimal
	// FlatFee is charged below the threshold.
	FlatFee decimal.Decimal
}

// NewShippingCalculator builds a calculator with the configured threshold
// and fee.
func NewShippingCalculator(freeThreshold, flatFee decimal.Decimal) ShippingCalculator {
	return ShippingCalculator{FreeThreshold: freeThreshold, FlatFee: flatFee}
}

// DefaultShippingCalculator returns a calculator with the default values.
func DefaultShippingCalculator() ShippingCalculator {
	return NewShippingCalculator(
		decimal.NewFromInt(DefaultFreeShippingThreshold),
		decimal.NewFromInt(DefaultFlatShippingFee),
	)
}

// Cost returns the shipping cost for a cart with the given pre-shipping
// subtotal. Active BOZ PLUS members always ship free; everyone else ships
// free at or above the threshold and pays the flat fee below it.
func (c ShippingCalculator) Cost(subtotal decimal.Decimal, m domain.Membership, now time.Time) decimal.Decimal {
	if m.IsActive(now) {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(c.FreeThreshold) {
		return decimal.Zero
	}
	return c.FlatFee
}
