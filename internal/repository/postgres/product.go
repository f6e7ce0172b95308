package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/invtrack/inventory/internal/domain"
)

const productColumns = "id, name, description, quantity, minimal_threshold, category_id, user_id, created_at, updated_at"

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product and assigns its ID
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, quantity, minimal_threshold, category_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Quantity,
		product.MinimalThreshold,
		product.CategoryID,
		product.UserID,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(
		&product.ID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// GetAll retrieves all products
func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY id`, productColumns)

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}

	return products, nil
}

// GetByCategoryID retrieves products belonging to a category
func (r *ProductRepository) GetByCategoryID(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE category_id = $1 ORDER BY id`, productColumns)

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, categoryID); err != nil {
		return nil, err
	}

	return products, nil
}

// GetByUserID retrieves products owned by a user
func (r *ProductRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE user_id = $1 ORDER BY id`, productColumns)

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, userID); err != nil {
		return nil, err
	}

	return products, nil
}

// GetBelowQuantity retrieves products with quantity strictly below the threshold
func (r *ProductRepository) GetBelowQuantity(ctx context.Context, threshold int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE quantity < $1 ORDER BY quantity`, productColumns)

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, threshold); err != nil {
		return nil, err
	}

	return products, nil
}

// GetLowStock retrieves products at or below their own minimal threshold
func (r *ProductRepository) GetLowStock(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE quantity <= minimal_threshold ORDER BY id`, productColumns)

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}

	return products, nil
}

// SearchByName retrieves products whose name contains the fragment, case-insensitively
func (r *ProductRepository) SearchByName(ctx context.Context, fragment string) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE name ILIKE $1 ORDER BY name`, productColumns)

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, "%"+fragment+"%"); err != nil {
		return nil, err
	}

	return products, nil
}

// List retrieves products matching the filter. Absent predicates are omitted
// from the WHERE clause entirely; the sort key is resolved against a column
// whitelist before any SQL is built.
func (r *ProductRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Product, error) {
	query, args, err := buildListQuery(filter)
	if err != nil {
		return nil, err
	}

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	return products, nil
}

// buildListQuery composes the conjunction of optional predicates plus the sort
// clause as parameterized SQL
func buildListQuery(filter domain.Filter) (string, []interface{}, error) {
	column, err := domain.SortColumn(filter.SortBy)
	if err != nil {
		return "", nil, err
	}

	order := filter.Order
	if order == "" {
		order = domain.SortAsc
	}
	if order != domain.SortAsc && order != domain.SortDesc {
		return "", nil, fmt.Errorf("%w: unknown sort direction %q", domain.ErrInvalidInput, order)
	}

	var (
		conditions []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE %s", arg("%"+filter.Name+"%")))
	}
	if filter.Description != "" {
		conditions = append(conditions, fmt.Sprintf("description ILIKE %s", arg("%"+filter.Description+"%")))
	}
	if filter.Quantity != nil {
		conditions = append(conditions, fmt.Sprintf("quantity = %s", arg(*filter.Quantity)))
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = %s", arg(*filter.CategoryID)))
	}
	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = %s", arg(*filter.UserID)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM products", productColumns)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", column, order)

	return sb.String(), args, nil
}

// Update overwrites the mutable fields of an existing product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, quantity = $3, minimal_threshold = $4, category_id = $5, user_id = $6, updated_at = $7
		WHERE id = $8
		RETURNING updated_at
	`

	product.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Quantity,
		product.MinimalThreshold,
		product.CategoryID,
		product.UserID,
		product.UpdatedAt,
		product.ID,
	).Scan(&product.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// Delete removes a product by ID
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
