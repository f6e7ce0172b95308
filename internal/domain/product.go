package domain

import (
	"context"
	"time"
)

// Product represents a tracked inventory item
type Product struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description      *string   `json:"description,omitempty" db:"description"`
	Quantity         int       `json:"quantity" db:"quantity" validate:"gte=0"`
	MinimalThreshold int       `json:"minimal_threshold" db:"minimal_threshold"`
	CategoryID       int64     `json:"category_id" db:"category_id" validate:"required"`
	UserID           int64     `json:"user_id" db:"user_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the product sits at or below its minimal threshold
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinimalThreshold
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create inserts a new product; the store assigns the ID
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id int64) (*Product, error)

	// GetAll retrieves all products
	GetAll(ctx context.Context) ([]*Product, error)

	// GetByCategoryID retrieves products belonging to a category
	GetByCategoryID(ctx context.Context, categoryID int64) ([]*Product, error)

	// GetByUserID retrieves products owned by a user
	GetByUserID(ctx context.Context, userID int64) ([]*Product, error)

	// GetBelowQuantity retrieves products with quantity strictly below the threshold
	GetBelowQuantity(ctx context.Context, threshold int) ([]*Product, error)

	// GetLowStock retrieves products at or below their own minimal threshold
	GetLowStock(ctx context.Context) ([]*Product, error)

	// SearchByName retrieves products whose name contains the fragment (case-insensitive)
	SearchByName(ctx context.Context, fragment string) ([]*Product, error)

	// List retrieves products matching the filter, sorted by its sort key
	List(ctx context.Context, filter Filter) ([]*Product, error)

	// Update overwrites the mutable fields of an existing product
	Update(ctx context.Context, product *Product) error

	// Delete removes a product by ID
	Delete(ctx context.Context, id int64) error
}
