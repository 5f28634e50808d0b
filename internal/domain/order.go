package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents a fulfillment stage of a placed order.
type OrderStatus string

const (
	// OrderStatusPending indicates the order was placed and awaits handling.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPreparing indicates the warehouse is assembling the order.
	OrderStatusPreparing OrderStatus = "preparing"
	// OrderStatusShipped indicates the order left the warehouse.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusInTransit indicates the carrier has the order.
	OrderStatusInTransit OrderStatus = "in_transit"
	// OrderStatusDelivered indicates the order reached the customer.
	OrderStatusDelivered OrderStatus = "delivered"
)

// orderStatusSteps maps each status to its position in the fulfillment
// sequence. Step numbers drive the storefront progress bar.
var orderStatusSteps = map[OrderStatus]int{
	OrderStatusPending:   1,
	OrderStatusPreparing: 2,
	OrderStatusShipped:   3,
	OrderStatusInTransit: 4,
	OrderStatusDelivered: 5,
}

// OrderStatuses lists all fulfillment statuses in sequence order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusShipped,
	OrderStatusInTransit,
	OrderStatusDelivered,
}

// String returns the string representation of the status.
func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether the status is one of the known fulfillment stages.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusSteps[s]
	return ok
}

// Step returns the 1-based position of the status in the fulfillment
// sequence, or 0 for an unknown status.
func (s OrderStatus) Step() int {
	return orderStatusSteps[s]
}

// Terminal reports whether the status ends the fulfillment process.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered
}

// StepReached reports whether the given stage should render as completed or
// current when the order sits at s: every stage at or before s is reached.
func (s OrderStatus) StepReached(stage OrderStatus) bool {
	return stage.Step() > 0 && stage.Step() <= s.Step()
}

// Order is a placed order. ShippingCost and Total are computed once at
// placement time and persisted; later catalog price changes never alter them.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress string          `json:"shipping_address" db:"shipping_address"`
	PaymentMethod   string          `json:"payment_method" db:"payment_method"`
	ShippingCost    decimal.Decimal `json:"shipping_cost" db:"shipping_cost"`
	Total           decimal.Decimal `json:"total" db:"total"`
	Status          OrderStatus     `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// OrderItem is a single line of an order with the unit price frozen at
// placement time.
type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// Subtotal returns the line amount: unit price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
