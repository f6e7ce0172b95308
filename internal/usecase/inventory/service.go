package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/invtrack/inventory/internal/domain"
	"github.com/invtrack/inventory/internal/pkg/logger"
	pkgvalidator "github.com/invtrack/inventory/internal/pkg/validator"
)

// Event types published on the product event subject
const (
	EventProductCreated         = "product.created"
	EventProductUpdated         = "product.updated"
	EventProductQuantityUpdated = "product.quantity_updated"
	EventProductDeleted         = "product.deleted"

	// EventSubject is the NATS subject carrying product events
	EventSubject = "products.events"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// ProductCache defines the caching interface used by the service
type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	GetUserProducts(ctx context.Context, userID int64) ([]*domain.Product, error)
	SetUserProducts(ctx context.Context, userID int64, products []*domain.Product) error
	InvalidateAll(ctx context.Context, product *domain.Product) error
	InvalidateUserProducts(ctx context.Context, userID int64) error
}

// StockEvent represents a product change event
type StockEvent struct {
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	ProductID int64           `json:"product_id"`
	Product   *domain.Product `json:"product,omitempty"`
}

// Service handles inventory business logic
type Service struct {
	repo      domain.ProductRepository
	cache     ProductCache
	publisher EventPublisher
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewService creates a new inventory service
func NewService(
	repo domain.ProductRepository,
	cache ProductCache,
	publisher EventPublisher,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		validate:  pkgvalidator.Get(),
		logger:    log,
	}
}

// Create persists a new product; the store assigns the ID
func (s *Service) Create(ctx context.Context, product *domain.Product) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return err
	}

	if err := s.cache.InvalidateUserProducts(ctx, product.UserID); err != nil {
		s.logger.Warnf("Failed to invalidate listings for user %d: %v", product.UserID, err)
	}

	s.publishEvent(EventProductCreated, product)

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created successfully")

	return nil
}

// GetByID retrieves a product by ID with read-through caching
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if product, err := s.cache.GetProduct(ctx, id); err == nil {
		s.logger.Debugf("Cache hit for product %d", id)
		return product, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found: %d", id)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.logger.Warnf("Failed to cache product %d: %v", id, err)
	}

	return product, nil
}

// GetAll retrieves all products
func (s *Service) GetAll(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, err
	}

	return products, nil
}

// GetByUserID retrieves products owned by a user with read-through caching
func (s *Service) GetByUserID(ctx context.Context, userID int64) ([]*domain.Product, error) {
	if products, err := s.cache.GetUserProducts(ctx, userID); err == nil {
		s.logger.Debugf("Cache hit for user %d products", userID)
		return products, nil
	}

	products, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list products by user", err)
		return nil, err
	}

	if err := s.cache.SetUserProducts(ctx, userID, products); err != nil {
		s.logger.Warnf("Failed to cache listings for user %d: %v", userID, err)
	}

	return products, nil
}

// GetByCategoryID retrieves products belonging to a category
func (s *Service) GetByCategoryID(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	products, err := s.repo.GetByCategoryID(ctx, categoryID)
	if err != nil {
		s.logger.Error("Failed to list products by category", err)
		return nil, err
	}

	return products, nil
}

// GetBelowQuantity retrieves products with quantity strictly below the threshold
func (s *Service) GetBelowQuantity(ctx context.Context, threshold int) ([]*domain.Product, error) {
	products, err := s.repo.GetBelowQuantity(ctx, threshold)
	if err != nil {
		s.logger.Error("Failed to list products below quantity", err)
		return nil, err
	}

	return products, nil
}

// GetLowStock retrieves products at or below their own minimal threshold
func (s *Service) GetLowStock(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.GetLowStock(ctx)
	if err != nil {
		s.logger.Error("Failed to list low-stock products", err)
		return nil, err
	}

	return products, nil
}

// ListFiltered retrieves products matching an AND-composed set of optional
// predicates, sorted by the filter's sort key and direction
func (s *Service) ListFiltered(ctx context.Context, filter domain.Filter) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			s.logger.Debugf("Rejected filter: %v", err)
		} else {
			s.logger.Error("Failed to list filtered products", err)
		}
		return nil, err
	}

	return products, nil
}

// ListFilteredByUser is the user-scoped variant of ListFiltered: it
// additionally requires user ID equality
func (s *Service) ListFilteredByUser(ctx context.Context, userID int64, filter domain.Filter) ([]*domain.Product, error) {
	filter.UserID = &userID
	return s.ListFiltered(ctx, filter)
}

// Update overwrites the mutable fields of an existing product
func (s *Service) Update(ctx context.Context, id int64, updated *domain.Product) (*domain.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found: %d", id)
		} else {
			s.logger.Error("Failed to get product for update", err)
		}
		return nil, err
	}

	previousUserID := existing.UserID

	existing.Name = updated.Name
	existing.Description = updated.Description
	existing.Quantity = updated.Quantity
	existing.MinimalThreshold = updated.MinimalThreshold
	existing.CategoryID = updated.CategoryID
	existing.UserID = updated.UserID

	if err := s.validate.Struct(existing); err != nil {
		s.logger.Error("Product validation failed", err)
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("Failed to update product", err)
		return nil, err
	}

	if err := s.cache.InvalidateAll(ctx, existing); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %d: %v", id, err)
	}
	if previousUserID != existing.UserID {
		if err := s.cache.InvalidateUserProducts(ctx, previousUserID); err != nil {
			s.logger.Warnf("Failed to invalidate listings for user %d: %v", previousUserID, err)
		}
	}

	s.publishEvent(EventProductUpdated, existing)

	s.logger.WithFields(map[string]interface{}{
		"product_id": existing.ID,
		"name":       existing.Name,
	}).Info("Product updated successfully")

	return existing, nil
}

// UpdateQuantity sets a product's quantity and reports whether the new level
// sits at or below the product's minimal threshold. The decision to notify
// belongs to the caller; the service only logs the breach.
func (s *Service) UpdateQuantity(ctx context.Context, id int64, quantity int) (*domain.Product, bool, error) {
	if quantity < 0 {
		return nil, false, fmt.Errorf("%w: quantity cannot be less than 0", domain.ErrInvalidInput)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debugf("Product not found: %d", id)
		} else {
			s.logger.Error("Failed to get product for quantity update", err)
		}
		return nil, false, err
	}

	existing.Quantity = quantity

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("Failed to update product quantity", err)
		return nil, false, err
	}

	if err := s.cache.InvalidateAll(ctx, existing); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %d: %v", id, err)
	}

	s.publishEvent(EventProductQuantityUpdated, existing)

	low := existing.IsLowStock()
	if low {
		s.logger.WithFields(map[string]interface{}{
			"product_id":        existing.ID,
			"name":              existing.Name,
			"quantity":          existing.Quantity,
			"minimal_threshold": existing.MinimalThreshold,
		}).Warn("Product quantity at or below minimal threshold")
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": existing.ID,
		"quantity":   quantity,
	}).Info("Product quantity updated successfully")

	return existing, low, nil
}

// Delete removes a product by ID
func (s *Service) Delete(ctx context.Context, id int64) error {
	// Owning user is needed for cache invalidation but only stored in the record
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get product for deletion", err)
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", err)
		return err
	}

	if err := s.cache.InvalidateAll(ctx, product); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %d: %v", id, err)
	}

	s.publishEvent(EventProductDeleted, product)

	s.logger.WithFields(map[string]interface{}{
		"product_id": id,
	}).Info("Product deleted successfully")

	return nil
}

// publishEvent publishes a product event (non-blocking)
func (s *Service) publishEvent(eventType string, product *domain.Product) {
	event := StockEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		ProductID: product.ID,
		Product:   product,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for product %d", product.ID)
		return
	}

	// Publish in background to avoid blocking
	go func() {
		if err := s.publisher.Publish(context.Background(), EventSubject, data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for product %d", product.ID)
		}
	}()
}
