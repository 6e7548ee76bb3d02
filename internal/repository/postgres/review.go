package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/database"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

// ReviewRepository implements review persistence using PostgreSQL.
//
// Every mutation runs in a transaction that first locks the product row
// with SELECT ... FOR UPDATE, so concurrent reviews of the same product
// serialize and the derived rating columns never drift from the review
// set.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Upsert stores the user's review for a product. An existing review by
// the same user is updated in place; otherwise the review is inserted.
// The product's ratings and num_of_reviews are refreshed in the same
// transaction.
func (r *ReviewRepository) Upsert(ctx context.Context, review *domain.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert review: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockProduct(ctx, tx, review.ProductID); err != nil {
		return err
	}

	var existingID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM product_reviews WHERE product_id = $1 AND user_id = $2`,
		review.ProductID, review.UserID,
	).Scan(&existingID)

	switch {
	case err == nil:
		_, err = tx.Exec(ctx,
			`UPDATE product_reviews SET user_name = $1, rating = $2, comment = $3 WHERE id = $4`,
			review.UserName, review.Rating, review.Comment, existingID,
		)
		if err != nil {
			return fmt.Errorf("update review: %w", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx,
			`INSERT INTO product_reviews (id, product_id, user_id, user_name, rating, comment, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			review.ID, review.ProductID, review.UserID, review.UserName, review.Rating, review.Comment, review.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert review: %w", err)
		}
	default:
		return fmt.Errorf("find review: %w", err)
	}

	if err := refreshAggregate(ctx, tx, review.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert review: %w", err)
	}

	return nil
}

// ListByProductID returns all reviews for a product, oldest first.
func (r *ReviewRepository) ListByProductID(ctx context.Context, productID string) ([]domain.Review, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("product", productID)
	}

	query := `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at
		FROM product_reviews
		WHERE product_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}

	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.UserName,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

// Delete removes a review by id and refreshes the product aggregate.
// Deleting a review id that is not present still succeeds and still
// recomputes the aggregate.
func (r *ReviewRepository) Delete(ctx context.Context, productID, reviewID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete review: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockProduct(ctx, tx, productID); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM product_reviews WHERE product_id = $1 AND id = $2`,
		productID, reviewID,
	)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if err := refreshAggregate(ctx, tx, productID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete review: %w", err)
	}

	return nil
}

// lockProduct takes a row lock on the product, serializing review
// mutations per product for the rest of the transaction.
func lockProduct(ctx context.Context, tx pgx.Tx, productID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product", productID)
		}
		return fmt.Errorf("lock product: %w", err)
	}
	return nil
}

// refreshAggregate recomputes the product's derived rating columns from
// the review rows visible inside the transaction.
func refreshAggregate(ctx context.Context, tx pgx.Tx, productID string) error {
	rows, err := tx.Query(ctx, `SELECT rating FROM product_reviews WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("read ratings: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.Rating); err != nil {
			return fmt.Errorf("scan rating: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate ratings: %w", err)
	}

	agg := domain.Aggregate(reviews)

	_, err = tx.Exec(ctx,
		`UPDATE products SET ratings = $1, num_of_reviews = $2 WHERE id = $3`,
		agg.Ratings, agg.NumOfReviews, productID,
	)
	if err != nil {
		return fmt.Errorf("update product aggregate: %w", err)
	}

	return nil
}
