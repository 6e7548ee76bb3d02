package repository

import (
	"context"
	"time"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/catalog"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
)

// ProductPage is the result of a catalog listing: one page of products
// plus the counts the storefront renders pagination from.
type ProductPage struct {
	Products []domain.Product
	// TotalCount is the size of the whole catalog, before any filter.
	TotalCount int
	// FilteredCount is the size of the filtered set, before pagination.
	FilteredCount int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its identifier, reviews included.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns the catalog page selected by the query together with
	// the total and filtered counts.
	List(ctx context.Context, query catalog.Query) (*ProductPage, error)

	// ListAll returns every product without filtering or pagination.
	ListAll(ctx context.Context) ([]domain.Product, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product and its reviews by product identifier.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines review persistence. Mutations also maintain
// the product's derived rating columns.
type ReviewRepository interface {
	// Upsert stores the user's review for a product, replacing any
	// earlier review by the same user, and refreshes the product's
	// aggregate rating in the same transaction.
	Upsert(ctx context.Context, review *domain.Review) error

	// ListByProductID returns all reviews for a product.
	ListByProductID(ctx context.Context, productID string) ([]domain.Review, error)

	// Delete removes a review by id from a product and refreshes the
	// aggregate. A review id that is not present is a no-op.
	Delete(ctx context.Context, productID, reviewID string) error
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user account.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByResetToken retrieves a user whose hashed reset token matches
	// and has not expired.
	GetByResetToken(ctx context.Context, hashedToken string) (*domain.User, error)

	// List returns all user accounts.
	List(ctx context.Context) ([]domain.User, error)

	// Update modifies a user's profile fields (name, email).
	Update(ctx context.Context, user *domain.User) error

	// UpdatePassword replaces the stored password hash and clears any
	// reset token state.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// UpdateDetails changes a user's name, email, and role.
	UpdateDetails(ctx context.Context, id, name, email, role string) error

	// SetResetToken stores the hashed reset token and its expiry; pass
	// empty values to clear.
	SetResetToken(ctx context.Context, id, hashedToken string, expiresAt *time.Time) error

	// Delete removes a user account.
	Delete(ctx context.Context, id string) error
}
