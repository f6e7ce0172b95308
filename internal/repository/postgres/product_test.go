package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invtrack/inventory/internal/domain"
)

func newMockRepo(t *testing.T) (*ProductRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewProductRepository(sqlxDB)

	return repo, mock, func() { _ = db.Close() }
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "quantity", "minimal_threshold",
		"category_id", "user_id", "created_at", "updated_at",
	})
}

func TestProductRepository_Create_AssignsID(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Widget", nil, 10, 5, int64(1), int64(42), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	product := &domain.Product{
		Name:             "Widget",
		Quantity:         10,
		MinimalThreshold: 5,
		CategoryID:       1,
		UserID:           42,
	}

	err := repo.Create(context.Background(), product)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(int64(99)).
		WillReturnRows(productRows())

	product, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, product)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("DELETE FROM products").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Success(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectExec("DELETE FROM products").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 7)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_FilterComposition(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	now := time.Now()
	quantity := 10
	categoryID := int64(1)

	mock.ExpectQuery(`SELECT (.+) FROM products WHERE name ILIKE \$1 AND quantity = \$2 AND category_id = \$3 ORDER BY name DESC`).
		WithArgs("%wid%", 10, int64(1)).
		WillReturnRows(productRows().AddRow(int64(7), "Widget", nil, 10, 5, int64(1), int64(42), now, now))

	products, err := repo.List(context.Background(), domain.Filter{
		Name:       "wid",
		Quantity:   &quantity,
		CategoryID: &categoryID,
		SortBy:     "name",
		Order:      domain.SortDesc,
	})

	assert.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildListQuery_NoFilters(t *testing.T) {
	query, args, err := buildListQuery(domain.Filter{})

	assert.NoError(t, err)
	assert.Empty(t, args)
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY id ASC")
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	quantity := 3
	categoryID := int64(2)
	userID := int64(42)

	query, args, err := buildListQuery(domain.Filter{
		Name:        "wid",
		Description: "blue",
		Quantity:    &quantity,
		CategoryID:  &categoryID,
		UserID:      &userID,
		SortBy:      "quantity",
		Order:       domain.SortDesc,
	})

	assert.NoError(t, err)
	assert.Equal(t, []interface{}{"%wid%", "%blue%", 3, int64(2), int64(42)}, args)
	assert.Contains(t, query, "name ILIKE $1")
	assert.Contains(t, query, "description ILIKE $2")
	assert.Contains(t, query, "quantity = $3")
	assert.Contains(t, query, "category_id = $4")
	assert.Contains(t, query, "user_id = $5")
	assert.Contains(t, query, "ORDER BY quantity DESC")
}

func TestBuildListQuery_UnknownSortField(t *testing.T) {
	_, _, err := buildListQuery(domain.Filter{SortBy: "bogus"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildListQuery_UnknownSortDirection(t *testing.T) {
	_, _, err := buildListQuery(domain.Filter{Order: "sideways"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductRepository_GetBelowQuantity(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM products WHERE quantity < \$1`).
		WithArgs(5).
		WillReturnRows(productRows().AddRow(int64(7), "Widget", nil, 2, 5, int64(1), int64(42), now, now))

	products, err := repo.GetBelowQuantity(context.Background(), 5)

	assert.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 2, products[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_SearchByName_UsesWildcards(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM products WHERE name ILIKE \$1`).
		WithArgs("%wid%").
		WillReturnRows(productRows().AddRow(int64(7), "Widget", nil, 10, 5, int64(1), int64(42), now, now))

	products, err := repo.SearchByName(context.Background(), "wid")

	assert.NoError(t, err)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetLowStock(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM products WHERE quantity <= minimal_threshold`).
		WillReturnRows(productRows().AddRow(int64(7), "Widget", nil, 5, 5, int64(1), int64(42), now, now))

	products, err := repo.GetLowStock(context.Background())

	assert.NoError(t, err)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	repo, mock, closeFn := newMockRepo(t)
	defer closeFn()

	mock.ExpectQuery("UPDATE products").
		WithArgs("Widget", nil, 10, 5, int64(1), int64(42), sqlmock.AnyArg(), int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.Update(context.Background(), &domain.Product{
		ID:               99,
		Name:             "Widget",
		Quantity:         10,
		MinimalThreshold: 5,
		CategoryID:       1,
		UserID:           42,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
