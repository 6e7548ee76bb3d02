package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/imagestore/memory"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

func newProductService(repo *mockProductRepository, store *memory.Store) *ProductService {
	return NewProductService(repo, store, noopEvents(), newTestLogger())
}

func validCreateInput() *CreateProductInput {
	return &CreateProductInput{
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, brown switches",
		Price:       4999,
		Category:    "Electronics",
		Stock:       12,
		Images:      []string{"data:image/png;base64,aaa", "data:image/png;base64,bbb"},
		CreatedBy:   "admin-1",
	}
}

func TestProductService_CreateProduct_Success(t *testing.T) {
	repo := &mockProductRepository{}
	store := memory.New("https://cdn.test")
	svc := newProductService(repo, store)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.CreateProduct(testContext(t), validCreateInput())

	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Len(t, product.Images, 2)
	assert.Equal(t, 0.0, product.Ratings)
	assert.Equal(t, 0, product.NumOfReviews)
	assert.Equal(t, "admin-1", product.CreatedBy)
	assert.Equal(t, 2, store.Len())
	repo.AssertExpectations(t)
}

func TestProductService_CreateProduct_DefaultsStockToOne(t *testing.T) {
	repo := &mockProductRepository{}
	svc := newProductService(repo, memory.New("https://cdn.test"))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	input := validCreateInput()
	input.Stock = 0

	product, err := svc.CreateProduct(testContext(t), input)

	require.NoError(t, err)
	assert.Equal(t, 1, product.Stock)
}

func TestProductService_CreateProduct_ValidationFailures(t *testing.T) {
	repo := &mockProductRepository{}
	svc := newProductService(repo, memory.New("https://cdn.test"))

	cases := []struct {
		name   string
		mutate func(*CreateProductInput)
	}{
		{"missing name", func(in *CreateProductInput) { in.Name = "" }},
		{"missing description", func(in *CreateProductInput) { in.Description = "" }},
		{"missing category", func(in *CreateProductInput) { in.Category = "" }},
		{"zero price", func(in *CreateProductInput) { in.Price = 0 }},
		{"seven figure price", func(in *CreateProductInput) { in.Price = 1_000_000 }},
		{"four figure stock", func(in *CreateProductInput) { in.Stock = 1000 }},
		{"negative sale price", func(in *CreateProductInput) { in.SalePrice = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(input)

			product, err := svc.CreateProduct(testContext(t), input)

			assert.Nil(t, product)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	repo.AssertNotCalled(t, "Create")
}

func TestProductService_CreateProduct_UploadFailureDestroysEarlierAssets(t *testing.T) {
	repo := &mockProductRepository{}
	store := memory.New("https://cdn.test")
	store.FailAfter = 1
	svc := newProductService(repo, store)

	product, err := svc.CreateProduct(testContext(t), validCreateInput())

	assert.Nil(t, product)
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
	repo.AssertNotCalled(t, "Create")
}

func TestProductService_UpdateProduct_ReplacesImages(t *testing.T) {
	repo := &mockProductRepository{}
	store := memory.New("https://cdn.test")
	svc := newProductService(repo, store)

	existing := &domain.Product{
		ID:          "prod-1",
		Name:        "Old Name",
		Description: "Old description",
		Price:       100,
		Category:    "Electronics",
		Stock:       5,
		Images:      []domain.ProductImage{},
	}

	repo.On("GetByID", mock.Anything, "prod-1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	updated, err := svc.UpdateProduct(testContext(t), &UpdateProductInput{
		ID:          "prod-1",
		Name:        "New Name",
		Description: "New description",
		Price:       200,
		Category:    "Electronics",
		Stock:       3,
		Images:      []string{"data:image/png;base64,ccc"},
	})

	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Len(t, updated.Images, 1)
	assert.Equal(t, 1, store.Len())
	repo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_KeepsImagesWhenNoneSupplied(t *testing.T) {
	repo := &mockProductRepository{}
	svc := newProductService(repo, memory.New("https://cdn.test"))

	existing := &domain.Product{
		ID:          "prod-1",
		Name:        "Old Name",
		Description: "desc",
		Price:       100,
		Category:    "Electronics",
		Stock:       5,
		Images: []domain.ProductImage{
			{PublicID: "products/keep-me", URL: "https://cdn.test/products/keep-me"},
		},
	}

	repo.On("GetByID", mock.Anything, "prod-1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	updated, err := svc.UpdateProduct(testContext(t), &UpdateProductInput{
		ID:          "prod-1",
		Name:        "New Name",
		Description: "desc",
		Price:       100,
		Category:    "Electronics",
		Stock:       5,
	})

	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	assert.Equal(t, "products/keep-me", updated.Images[0].PublicID)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	repo := &mockProductRepository{}
	svc := newProductService(repo, memory.New("https://cdn.test"))

	repo.On("GetByID", mock.Anything, "missing-id").Return(nil, apperrors.NotFound("product", "missing-id"))

	updated, err := svc.UpdateProduct(testContext(t), &UpdateProductInput{
		ID:          "missing-id",
		Name:        "Name",
		Description: "desc",
		Price:       100,
		Category:    "Electronics",
		Stock:       5,
	})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductService_DeleteProduct_DestroysAssetsFirst(t *testing.T) {
	repo := &mockProductRepository{}
	store := memory.New("https://cdn.test")
	svc := newProductService(repo, store)

	asset, err := store.Upload(testContext(t), "data", "products")
	require.NoError(t, err)

	existing := &domain.Product{
		ID:     "prod-1",
		Images: []domain.ProductImage{{PublicID: asset.PublicID, URL: asset.URL}},
	}

	repo.On("GetByID", mock.Anything, "prod-1").Return(existing, nil)
	repo.On("Delete", mock.Anything, "prod-1").Return(nil)

	err = svc.DeleteProduct(testContext(t), "prod-1")

	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	repo.AssertExpectations(t)
}
