package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/invtrack/inventory/internal/domain"
	"github.com/invtrack/inventory/internal/pkg/logger"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByCategoryID(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Product, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetBelowQuantity(ctx context.Context, threshold int) ([]*domain.Product, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetLowStock(ctx context.Context) ([]*domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) SearchByName(ctx context.Context, fragment string) ([]*domain.Product, error) {
	args := m.Called(ctx, fragment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductCache is a mock implementation of ProductCache
type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductCache) SetProduct(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductCache) GetUserProducts(ctx context.Context, userID int64) ([]*domain.Product, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Product), args.Error(1)
}

func (m *MockProductCache) SetUserProducts(ctx context.Context, userID int64, products []*domain.Product) error {
	args := m.Called(ctx, userID, products)
	return args.Error(0)
}

func (m *MockProductCache) InvalidateAll(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductCache) InvalidateUserProducts(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

func newTestService(repo *MockProductRepository, cache *MockProductCache, publisher *MockEventPublisher) *Service {
	return NewService(repo, cache, publisher, logger.New("test"))
}

func strPtr(s string) *string { return &s }

func TestService_Create_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	product := &domain.Product{
		Name:             "Widget",
		Description:      strPtr("A widget"),
		Quantity:         10,
		MinimalThreshold: 5,
		CategoryID:       1,
		UserID:           42,
	}

	mockRepo.On("Create", mock.Anything, product).Return(nil)
	mockCache.On("InvalidateUserProducts", mock.Anything, int64(42)).Return(nil)
	mockPublisher.On("Publish", mock.Anything, EventSubject, mock.Anything).Return(nil).Maybe()

	err := service.Create(context.Background(), product)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_Create_InvalidInput(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	product := &domain.Product{
		Name:       "", // Invalid: empty name
		CategoryID: 1,
	}

	err := service.Create(context.Background(), product)

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestService_GetByID_CacheMiss(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	expected := &domain.Product{ID: 7, Name: "Widget", CategoryID: 1}

	mockCache.On("GetProduct", mock.Anything, int64(7)).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByID", mock.Anything, int64(7)).Return(expected, nil)
	mockCache.On("SetProduct", mock.Anything, expected).Return(nil)

	product, err := service.GetByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, expected, product)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_GetByID_CacheHit(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	expected := &domain.Product{ID: 7, Name: "Widget", CategoryID: 1}

	mockCache.On("GetProduct", mock.Anything, int64(7)).Return(expected, nil)

	product, err := service.GetByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, expected, product)
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	mockCache.On("GetProduct", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

	product, err := service.GetByID(context.Background(), 99)

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestService_UpdateQuantity_NegativeQuantity(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	product, low, err := service.UpdateQuantity(context.Background(), 7, -1)

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, product)
	assert.False(t, low)
	// Rejected before any lookup or write
	mockRepo.AssertNotCalled(t, "GetByID")
	mockRepo.AssertNotCalled(t, "Update")
}

func TestService_UpdateQuantity_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	mockRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

	product, low, err := service.UpdateQuantity(context.Background(), 99, 3)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, product)
	assert.False(t, low)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestService_UpdateQuantity_LowStockSignal(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	existing := &domain.Product{
		ID:               7,
		Name:             "Widget",
		Quantity:         10,
		MinimalThreshold: 5,
		CategoryID:       1,
		UserID:           42,
	}

	mockRepo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing).Return(nil)
	mockCache.On("InvalidateAll", mock.Anything, existing).Return(nil)
	mockPublisher.On("Publish", mock.Anything, EventSubject, mock.Anything).Return(nil).Maybe()

	// Dropping to the threshold is inclusive: 5 <= 5 is low
	product, low, err := service.UpdateQuantity(context.Background(), 7, 5)

	assert.NoError(t, err)
	assert.True(t, low)
	assert.Equal(t, 5, product.Quantity)
	mockRepo.AssertExpectations(t)
}

func TestService_UpdateQuantity_AboveThreshold(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	existing := &domain.Product{
		ID:               7,
		Name:             "Widget",
		Quantity:         10,
		MinimalThreshold: 5,
		CategoryID:       1,
		UserID:           42,
	}

	mockRepo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, existing).Return(nil)
	mockCache.On("InvalidateAll", mock.Anything, existing).Return(nil)
	mockPublisher.On("Publish", mock.Anything, EventSubject, mock.Anything).Return(nil).Maybe()

	product, low, err := service.UpdateQuantity(context.Background(), 7, 6)

	assert.NoError(t, err)
	assert.False(t, low)
	assert.Equal(t, 6, product.Quantity)
	mockRepo.AssertExpectations(t)
}

func TestService_Update_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	existing := &domain.Product{
		ID:               7,
		Name:             "Widget",
		Quantity:         10,
		MinimalThreshold: 5,
		CategoryID:       1,
		UserID:           42,
	}
	updated := &domain.Product{
		Name:             "Widget Pro",
		Description:      strPtr("Improved widget"),
		Quantity:         20,
		MinimalThreshold: 8,
		CategoryID:       2,
		UserID:           42,
	}

	mockRepo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ID == 7 && p.Name == "Widget Pro" && p.Quantity == 20 && p.CategoryID == 2
	})).Return(nil)
	mockCache.On("InvalidateAll", mock.Anything, mock.Anything).Return(nil)
	mockPublisher.On("Publish", mock.Anything, EventSubject, mock.Anything).Return(nil).Maybe()

	product, err := service.Update(context.Background(), 7, updated)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), product.ID)
	assert.Equal(t, "Widget Pro", product.Name)
	assert.Equal(t, 8, product.MinimalThreshold)
	mockRepo.AssertExpectations(t)
}

func TestService_Update_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	mockRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, domain.ErrNotFound)

	product, err := service.Update(context.Background(), 99, &domain.Product{Name: "Widget", CategoryID: 1})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestService_Update_NegativeQuantityRejected(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	existing := &domain.Product{
		ID:         7,
		Name:       "Widget",
		Quantity:   10,
		CategoryID: 1,
	}

	mockRepo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)

	product, err := service.Update(context.Background(), 7, &domain.Product{
		Name:       "Widget",
		Quantity:   -3,
		CategoryID: 1,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, product)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestService_Delete_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	existing := &domain.Product{ID: 7, Name: "Widget", CategoryID: 1, UserID: 42}

	mockRepo.On("GetByID", mock.Anything, int64(7)).Return(existing, nil)
	mockRepo.On("Delete", mock.Anything, int64(7)).Return(nil)
	mockCache.On("InvalidateAll", mock.Anything, existing).Return(nil)
	mockPublisher.On("Publish", mock.Anything, EventSubject, mock.Anything).Return(nil).Maybe()

	err := service.Delete(context.Background(), 7)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_GetByUserID_CacheMiss(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	expected := []*domain.Product{
		{ID: 1, Name: "Widget", CategoryID: 1, UserID: 42},
		{ID: 2, Name: "Gadget", CategoryID: 1, UserID: 42},
	}

	mockCache.On("GetUserProducts", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)
	mockRepo.On("GetByUserID", mock.Anything, int64(42)).Return(expected, nil)
	mockCache.On("SetUserProducts", mock.Anything, int64(42), expected).Return(nil)

	products, err := service.GetByUserID(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_ListFilteredByUser_ScopesFilter(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	expected := []*domain.Product{{ID: 1, Name: "Widget", CategoryID: 1, UserID: 42}}

	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.Filter) bool {
		return f.UserID != nil && *f.UserID == 42 && f.Name == "wid"
	})).Return(expected, nil)

	products, err := service.ListFilteredByUser(context.Background(), 42, domain.Filter{Name: "wid"})

	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)
}

func TestService_ListFiltered_InvalidSort(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockCache := new(MockProductCache)
	mockPublisher := new(MockEventPublisher)
	service := newTestService(mockRepo, mockCache, mockPublisher)

	mockRepo.On("List", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidInput)

	products, err := service.ListFiltered(context.Background(), domain.Filter{SortBy: "bogus"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, products)
}
