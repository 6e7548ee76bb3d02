package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/catalog"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/domain"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/repository"
	"github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/database"
	apperrors "github.com/AshmeetSingh123/Qziners-EcommerceApp/pkg/errors"
)

// psql builds statements with $n placeholders for PostgreSQL.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const productColumns = "id, name, description, price, sale_price, ratings, images, category, stock, num_of_reviews, created_by, created_at"

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	query := `
		INSERT INTO products (id, name, description, price, sale_price, ratings, images, category, stock, num_of_reviews, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price,
		p.SalePrice,
		p.Ratings,
		imagesJSON,
		p.Category,
		p.Stock,
		p.NumOfReviews,
		p.CreatedBy,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its ID, reviews included.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var (
		p          domain.Product
		imagesJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.SalePrice,
		&p.Ratings,
		&imagesJSON,
		&p.Category,
		&p.Stock,
		&p.NumOfReviews,
		&p.CreatedBy,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	if err := unmarshalImages(imagesJSON, &p); err != nil {
		return nil, err
	}

	reviewsByProduct, err := r.loadReviews(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Reviews = reviewsByProduct[p.ID]
	if p.Reviews == nil {
		p.Reviews = []domain.Review{}
	}

	return &p, nil
}

// List returns the catalog page selected by the query, together with the
// total catalog size and the filtered (pre-pagination) count. The page
// statement carries count(*) OVER() so both come from one execution, but
// an out-of-range page returns no rows, so the filtered count is fetched
// separately in that case.
func (r *ProductRepository) List(ctx context.Context, q catalog.Query) (*repository.ProductPage, error) {
	page := &repository.ProductPage{Products: []domain.Product{}}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&page.TotalCount); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	conds := q.Conditions()

	builder := psql.
		Select(productColumns + ", count(*) OVER() AS filtered_count").
		From("products")
	if len(conds) > 0 {
		builder = builder.Where(conds)
	}

	query, args, err := builder.
		OrderBy("created_at DESC").
		Limit(catalog.ResultsPerPage).
		Offset(q.Offset()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var productIDs []string
	for rows.Next() {
		var (
			p          domain.Product
			imagesJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.SalePrice,
			&p.Ratings,
			&imagesJSON,
			&p.Category,
			&p.Stock,
			&p.NumOfReviews,
			&p.CreatedBy,
			&p.CreatedAt,
			&page.FilteredCount,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		if err := unmarshalImages(imagesJSON, &p); err != nil {
			return nil, err
		}

		page.Products = append(page.Products, p)
		productIDs = append(productIDs, p.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if len(page.Products) == 0 {
		// Page beyond the filtered set: the filtered count still has to
		// reflect the set the filters selected.
		countBuilder := psql.Select("count(*)").From("products")
		if len(conds) > 0 {
			countBuilder = countBuilder.Where(conds)
		}
		countQuery, countArgs, err := countBuilder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build filtered count query: %w", err)
		}
		if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&page.FilteredCount); err != nil {
			return nil, fmt.Errorf("count filtered products: %w", err)
		}
		return page, nil
	}

	if err := r.attachReviews(ctx, page.Products, productIDs); err != nil {
		return nil, err
	}

	return page, nil
}

// ListAll returns every product without filtering or pagination.
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	var productIDs []string

	for rows.Next() {
		var (
			p          domain.Product
			imagesJSON []byte
		)

		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.SalePrice,
			&p.Ratings,
			&imagesJSON,
			&p.Category,
			&p.Stock,
			&p.NumOfReviews,
			&p.CreatedBy,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}

		if err := unmarshalImages(imagesJSON, &p); err != nil {
			return nil, err
		}

		products = append(products, p)
		productIDs = append(productIDs, p.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if len(products) == 0 {
		return products, nil
	}

	if err := r.attachReviews(ctx, products, productIDs); err != nil {
		return nil, err
	}

	return products, nil
}

// Update modifies an existing product in the database.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, sale_price = $4,
		    images = $5, category = $6, stock = $7
		WHERE id = $8`

	ct, err := r.pool.Exec(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.SalePrice,
		imagesJSON,
		p.Category,
		p.Stock,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product from the database. Reviews follow the product
// row through the foreign key cascade.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}

	return nil
}

// attachReviews loads the reviews for the given products in one query
// and embeds them, keeping each product's reviews slice non-nil.
func (r *ProductRepository) attachReviews(ctx context.Context, products []domain.Product, productIDs []string) error {
	reviewsByProduct, err := r.loadReviews(ctx, productIDs)
	if err != nil {
		return err
	}

	for i := range products {
		reviews := reviewsByProduct[products[i].ID]
		if reviews == nil {
			reviews = []domain.Review{}
		}
		products[i].Reviews = reviews
	}

	return nil
}

func (r *ProductRepository) loadReviews(ctx context.Context, productIDs []string) (map[string][]domain.Review, error) {
	query := `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at
		FROM product_reviews
		WHERE product_id = ANY($1)
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	defer rows.Close()

	reviewsByProduct := make(map[string][]domain.Review)

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
		reviewsByProduct[rv.ProductID] = append(reviewsByProduct[rv.ProductID], rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviewsByProduct, nil
}

func unmarshalImages(data []byte, p *domain.Product) error {
	p.Images = []domain.ProductImage{}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &p.Images); err != nil {
		return fmt.Errorf("unmarshal images: %w", err)
	}
	return nil
}
