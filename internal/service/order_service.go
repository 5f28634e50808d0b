package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"boz-store/internal/domain"
	"boz-store/internal/pricing"
	"boz-store/internal/repository"

	"github.com/google/uuid"
)

var (
	// ErrEmptyCart rejects checkout with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrLineOutOfStock rejects checkout while a carted product is out of
	// stock.
	ErrLineOutOfStock = errors.New("a cart item is out of stock")
	// ErrInvalidStatus rejects an unknown fulfillment status.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrStatusRegression rejects moving an order to an earlier
	// fulfillment stage.
	ErrStatusRegression = errors.New("order status cannot move backwards")
	// ErrNotOrderOwner rejects reading another user's order.
	ErrNotOrderOwner = errors.New("order belongs to another user")
)

// OrderService defines order placement, tracking, and back-office status
// management.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddress, paymentMethod string) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	ListAllOrders(ctx context.Context, page, pageSize int) ([]*domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	shipping    pricing.ShippingCalculator
	now         func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	shipping pricing.ShippingCalculator,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		shipping:    shipping,
		now:         time.Now,
	}
}

// PlaceOrder turns the user's cart into an order. The total is computed here
// once, from snapshotted line prices plus shipping, and persisted; later
// catalog changes never touch it. The cart is cleared on success.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddress, paymentMethod string) (*domain.Order, error) {
	lines, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Stock check against the live catalog before committing.
	for _, line := range lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to check stock for %s: %w", line.ProductName, err)
		}
		if !product.Orderable() {
			return nil, ErrLineOutOfStock
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	summary := pricing.Aggregate(lines)
	shippingCost := s.shipping.Cost(summary.Subtotal, user.Membership(), now)

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		ShippingCost:    shippingCost,
		Total:           summary.Subtotal.Add(shippingCost),
		Status:          domain.OrderStatusPending,
		CreatedAt:       now,
	}

	for _, line := range lines {
		order.Items = append(order.Items, domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("order placed but cart not cleared: %w", err)
	}

	return order, nil
}

// GetOrder retrieves one of the user's own orders.
func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

// ListUserOrders retrieves the user's order history, newest first.
func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// ListAllOrders retrieves all orders for the back office.
func (s *orderService) ListAllOrders(ctx context.Context, page, pageSize int) ([]*domain.Order, int, error) {
	return s.orderRepo.List(ctx, page, pageSize)
}

// UpdateStatus moves an order along the fulfillment sequence. Forward skips
// are allowed, backward moves are rejected, and writing the current status
// again is a no-op.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if status.Step() < order.Status.Step() {
		return nil, ErrStatusRegression
	}
	if status == order.Status {
		return order, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	order.Status = status
	return order, nil
}
