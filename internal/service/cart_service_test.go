package service

import (
	"context"
	"testing"
	"time"

	"boz-store/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var cartTestNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type cartFixture struct {
	svc      *cartService
	users    *mockUserRepository
	products *mockProductRepository
	carts    *mockCartRepository
}

func newCartFixture() *cartFixture {
	users := newMockUserRepository()
	products := newMockProductRepository()
	carts := newMockCartRepository()

	svc := NewCartService(carts, products, users).(*cartService)
	svc.now = func() time.Time { return cartTestNow }

	return &cartFixture{svc: svc, users: users, products: products, carts: carts}
}

func (f *cartFixture) seedUser(status domain.MembershipStatus, expiry *time.Time) *domain.User {
	user := &domain.User{
		ID:            uuid.New(),
		Email:         "shopper@example.com",
		BozPlusStatus: status,
		BozPlusExpiry: expiry,
	}
	f.users.users[user.ID] = user
	return user
}

func (f *cartFixture) seedProduct(price, discounted, member int64) *domain.Product {
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        "Oak Bookshelf",
		Price:       decimal.NewFromInt(price),
		StockStatus: domain.StockStatusInStock,
	}
	if discounted > 0 {
		product.DiscountedPrice = decimal.NullDecimal{Decimal: decimal.NewFromInt(discounted), Valid: true}
	}
	if member > 0 {
		product.BozPlusPrice = decimal.NullDecimal{Decimal: decimal.NewFromInt(member), Valid: true}
	}
	f.products.products[product.ID] = product
	return product
}

func TestAddItem_RejectsQuantityBelowOne(t *testing.T) {
	f := newCartFixture()
	user := f.seedUser(domain.MembershipNone, nil)
	product := f.seedProduct(1000, 0, 0)

	if _, err := f.svc.AddItem(context.Background(), user.ID, product.ID, 0); err != ErrInvalidQuantity {
		t.Errorf("expected ErrInvalidQuantity for quantity 0, got %v", err)
	}
	if _, err := f.svc.AddItem(context.Background(), user.ID, product.ID, -3); err != ErrInvalidQuantity {
		t.Errorf("expected ErrInvalidQuantity for negative quantity, got %v", err)
	}
}

func TestAddItem_SnapshotsViewerPrice(t *testing.T) {
	f := newCartFixture()
	expiry := cartTestNow.Add(30 * 24 * time.Hour)
	member := f.seedUser(domain.MembershipActive, &expiry)
	product := f.seedProduct(1000, 800, 600)

	summary, err := f.svc.AddItem(context.Background(), member.ID, product.ID, 2)
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if len(summary.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(summary.Lines))
	}
	line := summary.Lines[0]
	if !line.UnitPrice.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected member unit price 600 snapshotted, got %s", line.UnitPrice)
	}
	if !summary.Subtotal.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected subtotal 1200, got %s", summary.Subtotal)
	}
	if summary.ItemCount != 2 {
		t.Errorf("expected item count 2, got %d", summary.ItemCount)
	}
}

func TestAddItem_SameProductTwiceMergesIntoOneLine(t *testing.T) {
	f := newCartFixture()
	user := f.seedUser(domain.MembershipNone, nil)
	product := f.seedProduct(500, 0, 0)

	if _, err := f.svc.AddItem(context.Background(), user.ID, product.ID, 1); err != nil {
		t.Fatalf("first AddItem failed: %v", err)
	}
	summary, err := f.svc.AddItem(context.Background(), user.ID, product.ID, 1)
	if err != nil {
		t.Fatalf("second AddItem failed: %v", err)
	}

	if len(summary.Lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(summary.Lines))
	}
	if summary.Lines[0].Quantity != 2 {
		t.Errorf("expected merged quantity 2, got %d", summary.Lines[0].Quantity)
	}
}

func TestAddItem_OutOfStockRejected(t *testing.T) {
	f := newCartFixture()
	user := f.seedUser(domain.MembershipNone, nil)
	product := f.seedProduct(500, 0, 0)
	product.StockStatus = domain.StockStatusOutOfStock

	if _, err := f.svc.AddItem(context.Background(), user.ID, product.ID, 1); err != ErrProductUnavailable {
		t.Errorf("expected ErrProductUnavailable, got %v", err)
	}
}

func TestAddItem_UnpriceableProductRejected(t *testing.T) {
	f := newCartFixture()
	user := f.seedUser(domain.MembershipNone, nil)
	product := f.seedProduct(500, 0, 0)
	product.Price = decimal.Zero

	if _, err := f.svc.AddItem(context.Background(), user.ID, product.ID, 1); err != ErrProductUnavailable {
		t.Errorf("expected ErrProductUnavailable for product without a base price, got %v", err)
	}
}

func TestUpdateQuantity_ZeroRemovesTheLine(t *testing.T) {
	f := newCartFixture()
	user := f.seedUser(domain.MembershipNone, nil)
	product := f.seedProduct(500, 0, 0)

	if _, err := f.svc.AddItem(context.Background(), user.ID, product.ID, 3); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	summary, err := f.svc.UpdateQuantity(context.Background(), user.ID, product.ID, 0)
	if err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	if len(summary.Lines) != 0 {
		t.Errorf("expected line removed at quantity 0, got %d lines", len(summary.Lines))
	}
}

func TestUpdateQuantity_SetsNewQuantity(t *testing.T) {
	f := newCartFixture()
	user := f.seedUser(domain.MembershipNone, nil)
	product := f.seedProduct(500, 0, 0)

	if _, err := f.svc.AddItem(context.Background(), user.ID, product.ID, 1); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	summary, err := f.svc.UpdateQuantity(context.Background(), user.ID, product.ID, 5)
	if err != nil {
		t.Fatalf("UpdateQuantity failed: %v", err)
	}
	if summary.Lines[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", summary.Lines[0].Quantity)
	}
	if !summary.Subtotal.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("expected subtotal 2500, got %s", summary.Subtotal)
	}
}

func TestRemoveItem_AbsentLineIsNoError(t *testing.T) {
	f := newCartFixture()
	user := f.seedUser(domain.MembershipNone, nil)

	summary, err := f.svc.RemoveItem(context.Background(), user.ID, uuid.New())
	if err != nil {
		t.Fatalf("expected removing an absent line to succeed, got %v", err)
	}
	if len(summary.Lines) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(summary.Lines))
	}
}

func TestClear_EmptiesTheCart(t *testing.T) {
	f := newCartFixture()
	user := f.seedUser(domain.MembershipNone, nil)
	first := f.seedProduct(500, 0, 0)
	second := f.seedProduct(300, 0, 0)

	if _, err := f.svc.AddItem(context.Background(), user.ID, first.ID, 1); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := f.svc.AddItem(context.Background(), user.ID, second.ID, 2); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	if err := f.svc.Clear(context.Background(), user.ID); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	summary, err := f.svc.GetCart(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if len(summary.Lines) != 0 || summary.ItemCount != 0 {
		t.Errorf("expected empty cart after Clear, got %d lines", len(summary.Lines))
	}
}

func TestAddItem_PriceSnapshotSurvivesCatalogChange(t *testing.T) {
	f := newCartFixture()
	user := f.seedUser(domain.MembershipNone, nil)
	product := f.seedProduct(500, 0, 0)

	if _, err := f.svc.AddItem(context.Background(), user.ID, product.ID, 1); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	// Catalog price changes after the line was carted.
	product.Price = decimal.NewFromInt(900)

	summary, err := f.svc.GetCart(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if !summary.Lines[0].UnitPrice.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected snapshotted unit price 500, got %s", summary.Lines[0].UnitPrice)
	}
}
