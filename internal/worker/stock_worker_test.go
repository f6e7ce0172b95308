package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/invtrack/inventory/internal/pkg/logger"
	"github.com/invtrack/inventory/internal/usecase/inventory"
)

func newTestWorker(t *testing.T) (*StockWorker, sqlmock.Sqlmock, *MockMailer, func()) {
	t.Helper()

	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	mailer := new(MockMailer)
	log := logger.New("test")
	checker := NewChecker(sqlxDB, mailer, "warehouse@example.com", log)
	worker := NewStockWorker(checker, log)

	return worker, mockDB, mailer, func() { _ = db.Close() }
}

func eventPayload(t *testing.T, eventType string, productID int64, ts time.Time) []byte {
	t.Helper()

	data, err := json.Marshal(ProductEvent{
		EventType: eventType,
		ProductID: productID,
		Timestamp: ts,
	})
	require.NoError(t, err)
	return data
}

func TestStockWorker_MalformedPayload(t *testing.T) {
	worker, _, _, closeFn := newTestWorker(t)
	defer closeFn()

	err := worker.HandleEvent([]byte("not json"))

	assert.Error(t, err)
	assert.Equal(t, 0, worker.GetPendingCount())
}

func TestStockWorker_SkipsQuantityUpdatedEvents(t *testing.T) {
	worker, _, _, closeFn := newTestWorker(t)
	defer closeFn()

	err := worker.HandleEvent(eventPayload(t, inventory.EventProductQuantityUpdated, 7, time.Now()))

	assert.NoError(t, err)
	assert.Equal(t, 0, worker.GetPendingCount())
}

func TestStockWorker_SkipsDeletedEvents(t *testing.T) {
	worker, _, _, closeFn := newTestWorker(t)
	defer closeFn()

	err := worker.HandleEvent(eventPayload(t, inventory.EventProductDeleted, 7, time.Now()))

	assert.NoError(t, err)
	assert.Equal(t, 0, worker.GetPendingCount())
}

func TestStockWorker_SchedulesCheckForCreatedEvent(t *testing.T) {
	worker, _, _, closeFn := newTestWorker(t)
	defer closeFn()

	err := worker.HandleEvent(eventPayload(t, inventory.EventProductCreated, 7, time.Now()))

	assert.NoError(t, err)
	assert.Equal(t, 1, worker.GetPendingCount())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = worker.Shutdown(ctx)
}

func TestStockWorker_DebouncesEventsForSameProduct(t *testing.T) {
	worker, _, _, closeFn := newTestWorker(t)
	defer closeFn()

	now := time.Now()
	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductCreated, 7, now)))
	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductUpdated, 7, now.Add(time.Millisecond))))
	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductUpdated, 7, now.Add(2*time.Millisecond))))

	assert.Equal(t, 1, worker.GetPendingCount())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = worker.Shutdown(ctx)
}

func TestStockWorker_IgnoresStaleEvents(t *testing.T) {
	worker, _, _, closeFn := newTestWorker(t)
	defer closeFn()

	now := time.Now()
	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductUpdated, 7, now)))
	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductUpdated, 7, now.Add(-time.Minute))))

	assert.Equal(t, 1, worker.GetPendingCount())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = worker.Shutdown(ctx)
}

func TestStockWorker_TracksSeparateProducts(t *testing.T) {
	worker, _, _, closeFn := newTestWorker(t)
	defer closeFn()

	now := time.Now()
	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductCreated, 7, now)))
	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductCreated, 8, now)))

	assert.Equal(t, 2, worker.GetPendingCount())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = worker.Shutdown(ctx)
}

func TestStockWorker_DebouncedCheckRunsOnce(t *testing.T) {
	worker, mockDB, mailer, closeFn := newTestWorker(t)
	defer closeFn()

	// Two events, one query: the debounce window collapses them
	mockDB.ExpectQuery("SELECT name, quantity, minimal_threshold FROM products").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "quantity", "minimal_threshold"}).
			AddRow("Widget", 2, 5))

	mailer.On("Send",
		mock.Anything,
		"warehouse@example.com",
		"Low Stock Alert: Widget",
		mock.AnythingOfType("string"),
	).Return(nil).Once()

	now := time.Now()
	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductCreated, 7, now)))
	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductUpdated, 7, now.Add(time.Millisecond))))

	assert.Eventually(t, func() bool {
		return worker.GetPendingCount() == 0
	}, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, worker.Shutdown(ctx))

	mailer.AssertExpectations(t)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestStockWorker_ShutdownCancelsPendingChecks(t *testing.T) {
	worker, _, _, closeFn := newTestWorker(t)
	defer closeFn()

	require.NoError(t, worker.HandleEvent(eventPayload(t, inventory.EventProductCreated, 7, time.Now())))
	require.Equal(t, 1, worker.GetPendingCount())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := worker.Shutdown(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, worker.GetPendingCount())
}

func TestStockWorker_RejectsEventsAfterShutdown(t *testing.T) {
	worker, _, _, closeFn := newTestWorker(t)
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, worker.Shutdown(ctx))

	err := worker.HandleEvent(eventPayload(t, inventory.EventProductCreated, 7, time.Now()))

	assert.NoError(t, err)
	assert.Equal(t, 0, worker.GetPendingCount())
}
