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
	// ErrInvalidQuantity rejects add requests for fewer than one unit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrProductUnavailable rejects adding a product that is out of stock
	// or cannot be priced.
	ErrProductUnavailable = errors.New("product is not available")
)

// CartService defines the cart operations of the storefront. Cart lines are
// keyed by product; adding an already-carted product increases its quantity,
// and lowering a quantity below 1 removes the line.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (pricing.CartSummary, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (pricing.CartSummary, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (pricing.CartSummary, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (pricing.CartSummary, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewCartService creates a new instance of CartService
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

// GetCart returns the aggregated cart of a user.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (pricing.CartSummary, error) {
	lines, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return pricing.CartSummary{}, err
	}
	return pricing.Aggregate(lines), nil
}

// AddItem adds quantity units of a product to the cart. If the product is
// already carted the existing line's quantity grows; otherwise a new line is
// created with the unit price resolved for the user at this moment.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (pricing.CartSummary, error) {
	if quantity < 1 {
		return pricing.CartSummary{}, ErrInvalidQuantity
	}

	existing, err := s.cartRepo.FindLine(ctx, userID, productID)
	if err != nil && err != repository.ErrCartItemNotFound {
		return pricing.CartSummary{}, err
	}

	if existing != nil {
		if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, existing.Quantity+quantity); err != nil {
			return pricing.CartSummary{}, err
		}
		return s.GetCart(ctx, userID)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return pricing.CartSummary{}, err
	}
	if !product.Orderable() {
		return pricing.CartSummary{}, ErrProductUnavailable
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return pricing.CartSummary{}, err
	}

	quote, err := pricing.Resolve(product, user.Membership(), s.now())
	if err != nil {
		// A product that cannot be priced cannot be carted.
		return pricing.CartSummary{}, ErrProductUnavailable
	}

	now := s.now()
	line := &domain.CartItem{
		ID:              uuid.New(),
		UserID:          userID,
		ProductID:       product.ID,
		ProductName:     product.Name,
		ImageURL:        product.ImageURL,
		Price:           product.Price,
		DiscountedPrice: product.DiscountedPrice,
		BozPlusPrice:    product.BozPlusPrice,
		UnitPrice:       quote.UnitPrice,
		Quantity:        quantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.cartRepo.Insert(ctx, line); err != nil {
		return pricing.CartSummary{}, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// UpdateQuantity sets the quantity of an existing line. A quantity below 1
// deletes the line; decrementing never clamps.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (pricing.CartSummary, error) {
	if quantity < 1 {
		return s.RemoveItem(ctx, userID, productID)
	}

	if err := s.cartRepo.UpdateQuantity(ctx, userID, productID, quantity); err != nil {
		return pricing.CartSummary{}, err
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes the line for a product. Removing an absent line is not
// an error.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (pricing.CartSummary, error) {
	if err := s.cartRepo.DeleteLine(ctx, userID, productID); err != nil && err != repository.ErrCartItemNotFound {
		return pricing.CartSummary{}, err
	}

	return s.GetCart(ctx, userID)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, userID)
}
