package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/invtrack/inventory/internal/domain"
	"github.com/invtrack/inventory/internal/pkg/logger"
)

// stockLevel is the slice of a product the checker cares about
type stockLevel struct {
	Name             string `db:"name"`
	Quantity         int    `db:"quantity"`
	MinimalThreshold int    `db:"minimal_threshold"`
}

// Checker re-reads a product's stock level and emails the alert recipient
// when the product sits at or below its minimal threshold.
// Reading current database state keeps the check idempotent: stale or
// redelivered events resolve against what is actually in stock.
type Checker struct {
	db        *sqlx.DB
	mailer    domain.Mailer
	recipient string
	logger    *logger.Logger
}

// NewChecker creates a new low-stock checker
func NewChecker(db *sqlx.DB, mailer domain.Mailer, recipient string, logger *logger.Logger) *Checker {
	return &Checker{
		db:        db,
		mailer:    mailer,
		recipient: recipient,
		logger:    logger,
	}
}

// CheckAndNotify loads the product's current stock level and sends a low-stock
// alert when it breaches the threshold
func (c *Checker) CheckAndNotify(ctx context.Context, productID int64) error {
	var level stockLevel
	query := `SELECT name, quantity, minimal_threshold FROM products WHERE id = $1`

	err := c.db.GetContext(ctx, &level, query, productID)
	if err != nil {
		// Product deleted between event and check - not an error, just log
		if errors.Is(err, sql.ErrNoRows) {
			c.logger.WithFields(map[string]any{
				"product_id": productID,
			}).Info("Product not found, skipping stock check")
			return nil
		}
		return fmt.Errorf("failed to load stock level: %w", err)
	}

	if level.Quantity > level.MinimalThreshold {
		c.logger.WithFields(map[string]any{
			"product_id": productID,
			"quantity":   level.Quantity,
		}).Debug("Stock above minimal threshold, no alert")
		return nil
	}

	subject := fmt.Sprintf("Low Stock Alert: %s", level.Name)
	body := fmt.Sprintf(
		"Dear user,\n\nThe product '%s' has reached or fallen below the minimal threshold of %d units.\nCurrent quantity: %d.\n\nPlease take appropriate action.",
		level.Name,
		level.MinimalThreshold,
		level.Quantity,
	)

	if err := c.mailer.Send(ctx, c.recipient, subject, body); err != nil {
		return fmt.Errorf("failed to send low stock alert: %w", err)
	}

	c.logger.WithFields(map[string]any{
		"product_id": productID,
		"quantity":   level.Quantity,
		"threshold":  level.MinimalThreshold,
	}).Info("Low stock alert sent")

	return nil
}

// GetStockLevel retrieves the current quantity for verification (used in tests)
func (c *Checker) GetStockLevel(ctx context.Context, productID int64) (int, error) {
	var quantity int
	query := `SELECT quantity FROM products WHERE id = $1`

	if err := c.db.GetContext(ctx, &quantity, query, productID); err != nil {
		return 0, fmt.Errorf("failed to get stock level: %w", err)
	}

	return quantity, nil
}
