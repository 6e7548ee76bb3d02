package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/catalog"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/event"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/imagestore"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/repository"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

// productImageFolder is where product pictures live on the image host.
const productImageFolder = "products"

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	SalePrice   float64
	Category    string
	Stock       int
	Images      []string
	CreatedBy   string
}

// UpdateProductInput holds the parameters for updating a product. A nil
// Images slice keeps the current pictures; a non-nil one replaces the
// whole set.
type UpdateProductInput struct {
	ID          string
	Name        string
	Description string
	Price       float64
	SalePrice   float64
	Category    string
	Stock       int
	Images      []string
}

// ProductService implements the business logic for catalog operations.
type ProductService struct {
	repo   repository.ProductRepository
	images imagestore.Store
	events event.Publisher
	logger *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, images imagestore.Store, events event.Publisher, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		images: images,
		events: events,
		logger: logger,
	}
}

// ListProducts returns the catalog page selected by the query.
func (s *ProductService) ListProducts(ctx context.Context, q catalog.Query) (*repository.ProductPage, error) {
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

// ListAllProducts returns every product, for the admin dashboard.
func (s *ProductService) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return products, nil
}

// GetProduct returns a single product with its reviews.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// CreateProduct validates the input, uploads the product images, and
// persists the product.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if err := validateProductFields(input.Name, input.Description, input.Category, input.Price, input.SalePrice, input.Stock); err != nil {
		return nil, err
	}

	stock := input.Stock
	if stock == 0 {
		stock = 1
	}

	assets, err := s.uploadAll(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		SalePrice:    input.SalePrice,
		Ratings:      0,
		Images:       assets,
		Category:     input.Category,
		Stock:        stock,
		NumOfReviews: 0,
		Reviews:      []domain.Review{},
		CreatedBy:    input.CreatedBy,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.destroyAll(ctx, assets)
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.events.PublishProductCreated(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.created", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
		slog.Int("images", len(product.Images)),
	)

	return product, nil
}

// UpdateProduct replaces a product's fields. When new images are
// supplied, the current assets are destroyed and the whole image set is
// replaced.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*domain.Product, error) {
	if err := validateProductFields(input.Name, input.Description, input.Category, input.Price, input.SalePrice, input.Stock); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Images != nil {
		s.destroyAll(ctx, product.Images)

		assets, err := s.uploadAll(ctx, input.Images)
		if err != nil {
			return nil, err
		}
		product.Images = assets
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.SalePrice = input.SalePrice
	product.Category = input.Category
	product.Stock = input.Stock

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.events.PublishProductUpdated(ctx, product); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.updated", slog.String("error", err.Error()))
	}

	return product, nil
}

// DeleteProduct destroys the product's assets on the image host and then
// removes the product row. Reviews go with it.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.destroyAll(ctx, product.Images)

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.events.PublishProductDeleted(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product.deleted", slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return nil
}

// uploadAll pushes the images to the host one at a time. If any upload
// fails, the assets uploaded so far are destroyed so no orphans remain.
func (s *ProductService) uploadAll(ctx context.Context, images []string) ([]domain.ProductImage, error) {
	assets := []domain.ProductImage{}

	for i, data := range images {
		asset, err := s.images.Upload(ctx, data, productImageFolder)
		if err != nil {
			s.destroyAll(ctx, assets)
			return nil, apperrors.Wrap(err, fmt.Sprintf("upload image %d", i+1))
		}
		assets = append(assets, domain.ProductImage{PublicID: asset.PublicID, URL: asset.URL})
	}

	return assets, nil
}

// destroyAll removes assets from the image host, logging failures
// instead of aborting. A leftover remote asset is recoverable; a failed
// request is not.
func (s *ProductService) destroyAll(ctx context.Context, assets []domain.ProductImage) {
	for _, asset := range assets {
		if err := s.images.Destroy(ctx, asset.PublicID); err != nil {
			s.logger.WarnContext(ctx, "failed to destroy image asset",
				slog.String("public_id", asset.PublicID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func validateProductFields(name, description, category string, price, salePrice float64, stock int) error {
	if name == "" {
		return apperrors.InvalidInput("please enter product name")
	}
	if description == "" {
		return apperrors.InvalidInput("please enter product description")
	}
	if category == "" {
		return apperrors.InvalidInput("please enter product category")
	}
	if price <= 0 {
		return apperrors.InvalidInput("please enter product price")
	}
	if price >= math.Pow10(domain.MaxPriceDigits) {
		return apperrors.InvalidInput(fmt.Sprintf("price cannot exceed %d figures", domain.MaxPriceDigits))
	}
	if salePrice < 0 {
		return apperrors.InvalidInput("sale price cannot be negative")
	}
	if stock < 0 {
		return apperrors.InvalidInput("stock cannot be negative")
	}
	if stock >= int(math.Pow10(domain.MaxStockDigits)) {
		return apperrors.InvalidInput(fmt.Sprintf("stock cannot exceed %d figures", domain.MaxStockDigits))
	}
	return nil
}
