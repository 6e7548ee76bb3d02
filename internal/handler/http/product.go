package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/catalog"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/service"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/httputil"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/middleware"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/validator"
)

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0,lt=1000000"`
	SalePrice   float64  `json:"salePrice" validate:"omitempty,gte=0"`
	Category    string   `json:"category" validate:"required"`
	Stock       int      `json:"stock" validate:"gte=0,lte=999"`
	Images      []string `json:"images" validate:"required,min=1"`
}

// UpdateProductRequest is the JSON request body for updating a product.
// Images are optional; when present they replace the whole set.
type UpdateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0,lt=1000000"`
	SalePrice   float64  `json:"salePrice" validate:"omitempty,gte=0"`
	Category    string   `json:"category" validate:"required"`
	Stock       int      `json:"stock" validate:"gte=0,lte=999"`
	Images      []string `json:"images"`
}

// --- Response DTOs ---

// ListProductsResponse is the storefront catalog listing body.
type ListProductsResponse struct {
	Success               bool             `json:"success"`
	Products              []domain.Product `json:"products"`
	ProductsCount         int              `json:"productsCount"`
	ResultsPerPage        int              `json:"resultsPerPage"`
	FilteredProductsCount int              `json:"filteredProductsCount"`
}

// ProductResponse wraps a single product.
type ProductResponse struct {
	Success bool            `json:"success"`
	Product *domain.Product `json:"product"`
}

// ProductsResponse wraps an unpaginated product list.
type ProductsResponse struct {
	Success  bool             `json:"success"`
	Products []domain.Product `json:"products"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := catalog.Parse(r.URL.Query())

	page, err := h.service.ListProducts(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ListProductsResponse{
		Success:               true,
		Products:              page.Products,
		ProductsCount:         page.TotalCount,
		ResultsPerPage:        catalog.ResultsPerPage,
		FilteredProductsCount: page.FilteredCount,
	})
}

// ListAllProducts handles GET /api/v1/admin/products
func (h *ProductHandler) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAllProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ProductsResponse{Success: true, Products: products})
}

// GetProduct handles GET /api/v1/product/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ProductResponse{Success: true, Product: product})
}

// CreateProduct handles POST /api/v1/admin/product/new
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Category:    req.Category,
		Stock:       req.Stock,
		Images:      req.Images,
		CreatedBy:   middleware.UserIDFromContext(r.Context()),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, ProductResponse{Success: true, Product: product})
}

// UpdateProduct handles PUT /api/v1/admin/product/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), &service.UpdateProductInput{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Category:    req.Category,
		Stock:       req.Stock,
		Images:      req.Images,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ProductResponse{Success: true, Product: product})
}

// DeleteProduct handles DELETE /api/v1/admin/product/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK)
}
