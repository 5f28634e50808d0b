package transport

import (
	"net/http"
	"strconv"
	"strings"

	"boz-store/internal/domain"
	"boz-store/internal/middleware"
	"boz-store/internal/repository"
	"boz-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the admin product create/update payload.
// Monetary fields travel as strings so decimals survive the wire exactly.
type ProductRequest struct {
	Name            string  `json:"name" validate:"required"`
	Description     string  `json:"description"`
	CategoryID      string  `json:"category_id" validate:"required,uuid"`
	Price           string  `json:"price" validate:"required,money"`
	DiscountedPrice *string `json:"discounted_price" validate:"omitempty,money"`
	BozPlusPrice    *string `json:"boz_plus_price" validate:"omitempty,money"`
	ImageURL        string  `json:"image_url"`
	StockStatus     string  `json:"stock_status" validate:"required,oneof=in_stock out_of_stock"`
	StockAmount     *int    `json:"stock_amount" validate:"omitempty,gte=0"`
}

// CategoryRequest represents the admin category create/update payload
type CategoryRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
	IsActive     bool   `json:"is_active"`
	ImageURL     string `json:"image_url"`
}

// ReorderRequest represents the category reorder payload
type ReorderRequest struct {
	DisplayOrder int `json:"display_order" validate:"gte=0"`
}

// ProductListResponse is a paginated product page with viewer quotes.
type ProductListResponse struct {
	Products []service.ProductView `json:"products"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// CatalogHandler handles HTTP requests for products and categories
type CatalogHandler struct {
	catalogService service.CatalogService
	userService    service.UserService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, userService service.UserService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		userService:    userService,
		logger:         logger,
	}
}

// RegisterRoutes registers catalog routes. Reads are public; writes go under
// /api/admin behind the auth and admin middleware.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{id}", h.GetProduct)
	r.Get("/api/categories", h.ListCategories)

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(adminMiddleware)

		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)

		r.Get("/categories", h.ListAllCategories)
		r.Post("/categories", h.CreateCategory)
		r.Put("/categories/{id}", h.UpdateCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)
		r.Put("/categories/{id}/order", h.ReorderCategory)
	})
}

// viewerMembership resolves the BOZ PLUS view of the caller from an optional
// bearer token. Catalog reads are public, so any token problem just means an
// anonymous viewer.
func (h *CatalogHandler) viewerMembership(r *http.Request) domain.Membership {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return domain.Membership{Status: domain.MembershipNone}
	}

	claims, err := h.userService.ValidateToken(parts[1])
	if err != nil {
		return domain.Membership{Status: domain.MembershipNone}
	}

	user, err := h.userService.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		return domain.Membership{Status: domain.MembershipNone}
	}

	return user.Membership()
}

// ListProducts handles the public product listing with paging, sorting,
// category filter and search.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewerMembership(r)

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var (
		views []service.ProductView
		total int
		err   error
	)

	if search := r.URL.Query().Get("search"); search != "" {
		views, total, err = h.catalogService.SearchProducts(r.Context(), viewer, search, page, pageSize)
	} else {
		var categoryID *uuid.UUID
		if raw := r.URL.Query().Get("category_id"); raw != "" {
			id, parseErr := uuid.Parse(raw)
			if parseErr != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
				return
			}
			categoryID = &id
		}

		sortBy := r.URL.Query().Get("sort_by")
		sortOrder := repository.SortOrder(strings.ToUpper(r.URL.Query().Get("sort_order")))
		views, total, err = h.catalogService.ListProducts(r.Context(), viewer, categoryID, page, pageSize, sortBy, sortOrder)
	}

	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: views,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetProduct handles a single public product read.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	view, err := h.catalogService.GetProduct(r.Context(), h.viewerMembership(r), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// ListCategories handles the public category listing (active only).
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context(), true)
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListAllCategories handles the admin category listing, inactive included.
func (h *CatalogHandler) ListAllCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context(), false)
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CatalogHandler) productInput(req ProductRequest) (service.ProductInput, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return service.ProductInput{}, err
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return service.ProductInput{}, err
	}

	input := service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  categoryID,
		Price:       price,
		ImageURL:    req.ImageURL,
		StockStatus: domain.StockStatus(req.StockStatus),
		StockAmount: req.StockAmount,
	}

	if req.DiscountedPrice != nil {
		d, err := decimal.NewFromString(*req.DiscountedPrice)
		if err != nil {
			return service.ProductInput{}, err
		}
		input.DiscountedPrice = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	if req.BozPlusPrice != nil {
		d, err := decimal.NewFromString(*req.BozPlusPrice)
		if err != nil {
			return service.ProductInput{}, err
		}
		input.BozPlusPrice = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	return input, nil
}

// CreateProduct handles admin product creation
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := h.productInput(req)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product payload")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), input)
	if err != nil {
		switch err {
		case service.ErrMemberPriceTooHigh, service.ErrInvalidPrice:
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles admin product updates
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := h.productInput(req)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product payload")
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, input)
	if err != nil {
		switch err {
		case service.ErrMemberPriceTooHigh, service.ErrInvalidPrice:
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles admin product deletion
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// CreateCategory handles admin category creation
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), req.Name, req.Description, req.ImageURL, req.DisplayOrder, req.IsActive)
	if err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "category with this name already exists")
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// UpdateCategory handles admin category updates
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category := &domain.Category{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
		ImageURL:     req.ImageURL,
	}

	if err := h.catalogService.UpdateCategory(r.Context(), category); err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		case repository.ErrCategoryAlreadyExists:
			middleware.RespondWithError(w, http.StatusConflict, "category with this name already exists")
		default:
			h.logger.Error("Failed to update category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update category")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// DeleteCategory handles admin category deletion
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to delete category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

// ReorderCategory handles admin category reordering
func (h *CatalogHandler) ReorderCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var req ReorderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.catalogService.ReorderCategory(r.Context(), id, req.DisplayOrder); err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to reorder category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to reorder category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "category reordered"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
