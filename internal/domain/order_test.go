package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderStatus_StepSequence(t *testing.T) {
	for i, status := range OrderStatuses {
		if status.Step() != i+1 {
			t.Errorf("expected %s at step %d, got %d", status, i+1, status.Step())
		}
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, status := range OrderStatuses {
		if !status.Valid() {
			t.Errorf("expected %s to be valid", status)
		}
	}
	if OrderStatus("cancelled").Valid() {
		t.Error("unknown status must not be valid")
	}
	if OrderStatus("cancelled").Step() != 0 {
		t.Error("unknown status must report step 0")
	}
}

func TestOrderStatus_OnlyDeliveredIsTerminal(t *testing.T) {
	for _, status := range OrderStatuses {
		terminal := status == OrderStatusDelivered
		if status.Terminal() != terminal {
			t.Errorf("Terminal() for %s: expected %v", status, terminal)
		}
	}
}

func TestOrderStatus_StepReached(t *testing.T) {
	current := OrderStatusShipped

	reached := map[OrderStatus]bool{
		OrderStatusPending:   true,
		OrderStatusPreparing: true,
		OrderStatusShipped:   true,
		OrderStatusInTransit: false,
		OrderStatusDelivered: false,
	}
	for stage, want := range reached {
		if got := current.StepReached(stage); got != want {
			t.Errorf("StepReached(%s) at %s: expected %v, got %v", stage, current, want, got)
		}
	}

	if current.StepReached(OrderStatus("cancelled")) {
		t.Error("unknown stage must never render as reached")
	}
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{UnitPrice: decimal.NewFromInt(600), Quantity: 3}

	if !item.Subtotal().Equal(decimal.NewFromInt(1800)) {
		t.Errorf("expected subtotal 1800, got %s", item.Subtotal())
	}
}
