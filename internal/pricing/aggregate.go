package pricing

import (
	"boz-store/internal/domain"

	"github.com/shopspring/decimal"
)

// CartSummary is the aggregate view of a cart: the pre-shipping subtotal,
// the total unit count across all lines, and the lines themselves.
type CartSummary struct {
	Subtotal  decimal.Decimal   `json:"subtotal"`
	ItemCount int               `json:"item_count"`
	Lines     []domain.CartItem `json:"lines"`
}

// Aggregate sums the cart lines. Subtotal is the sum of per-line subtotals
// (snapshotted unit price times quantity); ItemCount counts units, not
// distinct lines.
func Aggregate(lines []domain.CartItem) CartSummary {
	summary := CartSummary{Subtotal: decimal.Zero, Lines: lines}
	for _, line := range lines {
		summary.Subtotal = summary.Subtotal.Add(line.Subtotal())
		summary.ItemCount += line.Quantity
	}
	return summary
}
