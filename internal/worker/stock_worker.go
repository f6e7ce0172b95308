package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/invtrack/inventory/internal/pkg/logger"
	"github.com/invtrack/inventory/internal/usecase/inventory"
)

const (
	// Debounce window - collect events for same product within this duration
	debounceWindow = 1 * time.Second

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// ProductEvent represents a product event from NATS
type ProductEvent struct {
	EventType string    `json:"event_type"`
	ProductID int64     `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// StockWorker processes product events and runs low-stock checks asynchronously.
// It only acts on create and full-update events: those paths can leave a
// product below threshold without the API's synchronous alert. Quantity
// updates already notified, and deletes leave nothing to check.
type StockWorker struct {
	checker *Checker
	logger  *logger.Logger

	// Debouncing state
	mu            sync.Mutex
	pendingChecks map[int64]*pendingCheck
	shutdownCh    chan struct{}
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
}

type pendingCheck struct {
	productID int64
	timestamp time.Time
	timer     *time.Timer
}

// NewStockWorker creates a new stock worker
func NewStockWorker(checker *Checker, logger *logger.Logger) *StockWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &StockWorker{
		checker:       checker,
		logger:        logger,
		pendingChecks: make(map[int64]*pendingCheck),
		shutdownCh:    make(chan struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// HandleEvent processes a product event
func (w *StockWorker) HandleEvent(data []byte) error {
	var event ProductEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.WithFields(map[string]any{
			"error": err.Error(),
		}).Error("Failed to unmarshal product event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	w.logger.WithFields(map[string]any{
		"event_type": event.EventType,
		"product_id": event.ProductID,
		"timestamp":  event.Timestamp,
	}).Info("Received product event")

	if event.EventType != inventory.EventProductCreated && event.EventType != inventory.EventProductUpdated {
		w.logger.WithFields(map[string]any{
			"event_type": event.EventType,
			"product_id": event.ProductID,
		}).Debug("Event type requires no stock check, skipping")
		return nil
	}

	// Schedule the check with debouncing
	w.scheduleCheck(event.ProductID, event.Timestamp)

	return nil
}

// scheduleCheck implements debouncing logic.
// Multiple events for the same product within the debounce window result in a
// single database read and at most one alert.
func (w *StockWorker) scheduleCheck(productID int64, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Check if already shutting down
	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pendingChecks[productID]

	if found {
		// Ignore stale events
		if timestamp.Before(existing.timestamp) {
			w.logger.WithFields(map[string]any{
				"product_id":  productID,
				"existing_ts": existing.timestamp,
				"event_ts":    timestamp,
			}).Debug("Ignoring stale event")
			return
		}

		existing.timer.Stop()
		w.logger.WithFields(map[string]any{
			"product_id": productID,
		}).Debug("Debouncing: resetting timer for product")
	} else {
		// New product, increment wait group
		w.wg.Add(1)
	}

	timer := time.AfterFunc(debounceWindow, func() {
		w.processCheck(productID)
	})

	w.pendingChecks[productID] = &pendingCheck{
		productID: productID,
		timestamp: timestamp,
		timer:     timer,
	}
}

// processCheck executes the low-stock check with retry logic
func (w *StockWorker) processCheck(productID int64) {
	defer w.wg.Done()

	w.mu.Lock()
	delete(w.pendingChecks, productID)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"product_id": productID,
	}).Info("Processing stock check")

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]any{
				"product_id": productID,
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying stock check")

			select {
			case <-time.After(backoff):
				// Continue with retry
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, 5*time.Second)
		err := w.checker.CheckAndNotify(ctx, productID)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]any{
			"product_id": productID,
			"attempt":    attempt + 1,
			"error":      err.Error(),
		}).Error("Failed to run stock check", err)
	}

	w.logger.WithFields(map[string]any{
		"product_id":  productID,
		"max_retries": maxRetries,
		"error":       lastErr.Error(),
	}).Error("Stock check failed after all retries", lastErr)
}

// Shutdown gracefully shuts down the worker.
// Cancels pending timers and waits for in-flight checks to complete.
func (w *StockWorker) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down stock worker...")

	// Signal shutdown to prevent new checks
	close(w.shutdownCh)

	// Cancel context to stop retries
	w.cancel()

	w.mu.Lock()
	pendingCount := len(w.pendingChecks)
	for _, check := range w.pendingChecks {
		check.timer.Stop()
		w.wg.Done() // Decrement counter for cancelled checks
	}
	w.pendingChecks = make(map[int64]*pendingCheck)
	w.mu.Unlock()

	w.logger.WithFields(map[string]any{
		"cancelled_checks": pendingCount,
	}).Info("Cancelled pending checks")

	// Wait for in-flight checks to complete or context timeout
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight checks completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// GetPendingCount returns the number of pending checks (used for monitoring/testing)
func (w *StockWorker) GetPendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pendingChecks)
}
