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
	"github.com/shopspring/decimal"
)

var (
	// ErrMemberPriceTooHigh rejects a BOZ PLUS price above the price
	// non-members already pay.
	ErrMemberPriceTooHigh = errors.New("boz plus price exceeds effective price")
	// ErrInvalidPrice rejects a non-positive base or discounted price.
	ErrInvalidPrice = errors.New("price must be positive")
)

// ProductView is a catalog product paired with the price quote for the
// requesting viewer. Unavailable is set instead of a quote when the stored
// prices are inconsistent; such products render as not purchasable.
type ProductView struct {
	Product     *domain.Product `json:"product"`
	Quote       *pricing.Quote  `json:"quote,omitempty"`
	Unavailable bool            `json:"unavailable,omitempty"`
}

// ProductInput carries the admin-supplied fields of a product create or
// update.
type ProductInput struct {
	Name            string
	Description     string
	CategoryID      uuid.UUID
	Price           decimal.Decimal
	DiscountedPrice decimal.NullDecimal
	BozPlusPrice    decimal.NullDecimal
	ImageURL        string
	StockStatus     domain.StockStatus
	StockAmount     *int
}

// CatalogService defines product and category operations for both the
// storefront and the back office.
type CatalogService interface {
	ListProducts(ctx context.Context, viewer domain.Membership, categoryID *uuid.UUID, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]ProductView, int, error)
	SearchProducts(ctx context.Context, viewer domain.Membership, query string, page, pageSize int) ([]ProductView, int, error)
	GetProduct(ctx context.Context, viewer domain.Membership, id uuid.UUID) (*ProductView, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context, activeOnly bool) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, name, description, imageURL string, displayOrder int, isActive bool) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ReorderCategory(ctx context.Context, id uuid.UUID, displayOrder int) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// ListProducts retrieves a product page with viewer-specific price quotes.
func (s *catalogService) ListProducts(ctx context.Context, viewer domain.Membership, categoryID *uuid.UUID, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]ProductView, int, error) {
	products, total, err := s.productRepo.List(ctx, categoryID, page, pageSize, sortBy, sortOrder)
	if err != nil {
		return nil, 0, err
	}
	return s.quoteAll(products, viewer), total, nil
}

// SearchProducts searches the catalog with viewer-specific price quotes.
func (s *catalogService) SearchProducts(ctx context.Context, viewer domain.Membership, query string, page, pageSize int) ([]ProductView, int, error) {
	products, total, err := s.productRepo.Search(ctx, query, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return s.quoteAll(products, viewer), total, nil
}

// GetProduct retrieves a single product with the viewer's price quote.
func (s *catalogService) GetProduct(ctx context.Context, viewer domain.Membership, id uuid.UUID) (*ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.quote(product, viewer)
	return &view, nil
}

func (s *catalogService) quoteAll(products []*domain.Product, viewer domain.Membership) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, s.quote(p, viewer))
	}
	return views
}

// quote resolves the viewer price. A product whose stored prices fail the
// resolver is presented as unavailable rather than dropped or quoted at 0.
func (s *catalogService) quote(product *domain.Product, viewer domain.Membership) ProductView {
	q, err := pricing.Resolve(product, viewer, s.now())
	if err != nil {
		return ProductView{Product: product, Unavailable: true}
	}
	return ProductView{Product: product, Quote: &q}
}

// CreateProduct validates prices and stores a new product.
func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validatePrices(input); err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	now := s.now()
	product := &domain.Product{
		ID:              uuid.New(),
		Name:            input.Name,
		Description:     input.Description,
		CategoryID:      input.CategoryID,
		Price:           input.Price,
		DiscountedPrice: input.DiscountedPrice,
		BozPlusPrice:    input.BozPlusPrice,
		ImageURL:        input.ImageURL,
		StockStatus:     input.StockStatus,
		StockAmount:     input.StockAmount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateProduct validates prices and updates an existing product.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := validatePrices(input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.CategoryID = input.CategoryID
	product.Price = input.Price
	product.DiscountedPrice = input.DiscountedPrice
	product.BozPlusPrice = input.BozPlusPrice
	product.ImageURL = input.ImageURL
	product.StockStatus = input.StockStatus
	product.StockAmount = input.StockAmount
	product.UpdatedAt = s.now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// validatePrices enforces the pricing invariants at write time: a positive
// base price, positive optional prices, and a member price no higher than
// the effective non-member price.
func validatePrices(input ProductInput) error {
	if !input.Price.IsPositive() {
		return ErrInvalidPrice
	}

	effective := input.Price
	if input.DiscountedPrice.Valid {
		if !input.DiscountedPrice.Decimal.IsPositive() {
			return ErrInvalidPrice
		}
		effective = input.DiscountedPrice.Decimal
	}

	if input.BozPlusPrice.Valid {
		if !input.BozPlusPrice.Decimal.IsPositive() {
			return ErrInvalidPrice
		}
		if input.BozPlusPrice.Decimal.GreaterThan(effective) {
			return ErrMemberPriceTooHigh
		}
	}

	return nil
}

// ListCategories retrieves categories in display order.
func (s *catalogService) ListCategories(ctx context.Context, activeOnly bool) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx, activeOnly)
}

// CreateCategory stores a new category.
func (s *catalogService) CreateCategory(ctx context.Context, name, description, imageURL string, displayOrder int, isActive bool) (*domain.Category, error) {
	category := &domain.Category{
		ID:           uuid.New(),
		Name:         name,
		Description:  description,
		DisplayOrder: displayOrder,
		IsActive:     isActive,
		ImageURL:     imageURL,
		CreatedAt:    s.now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateCategory updates an existing category.
func (s *catalogService) UpdateCategory(ctx context.Context, category *domain.Category) error {
	return s.categoryRepo.Update(ctx, category)
}

// DeleteCategory removes a category.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// ReorderCategory moves a category within the navigation sequence.
func (s *catalogService) ReorderCategory(ctx context.Context, id uuid.UUID, displayOrder int) error {
	return s.categoryRepo.SetDisplayOrder(ctx, id, displayOrder)
}
