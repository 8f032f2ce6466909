package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/smartinventory/backend/internal/application/transaction"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/inventory"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Movement is one requested quantity change.
type Movement struct {
	ProductID int64
	Delta     int
	Type      inventory.TransactionType
	UserID    int64
	Reference string
	Notes     string
}

// MovementResult is what a movement did.
type MovementResult struct {
	Change *catalog.StockChange
	Alert  *inventory.StockAlert
}

// Recorder applies quantity changes through the product ledger and records
// their consequences in the same unit of work.
type Recorder struct {
	metrics Metrics
}

// NewRecorder creates a Recorder. A nil metrics uses NoopMetrics.
func NewRecorder(metrics Metrics) *Recorder {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Recorder{metrics: metrics}
}

// Apply changes stock by m.Delta. Decrements use the ledger's conditional
// decrement so concurrent callers cannot both consume the same units.
func (r *Recorder) Apply(ctx context.Context, repos transaction.Repositories, now time.Time, m Movement) (*MovementResult, error) {
	var (
		change *catalog.StockChange
		err    error
	)
	if m.Delta < 0 {
		change, err = repos.Products().DecrementStock(ctx, m.ProductID, -m.Delta)
	} else {
		change, err = repos.Products().IncrementStock(ctx, m.ProductID, m.Delta)
	}
	if err != nil {
		var stockErr *catalog.InsufficientStockError
		if errors.As(err, &stockErr) {
			r.metrics.StockRejected(ctx, string(m.Type))
		}
		return nil, err
	}

	alert, err := r.Record(ctx, repos, now, change, m)
	if err != nil {
		return nil, err
	}
	return &MovementResult{Change: change, Alert: alert}, nil
}

// Record appends the ledger entry for an already-applied change and raises
// an alert when the change crossed the product's threshold.
func (r *Recorder) Record(ctx context.Context, repos transaction.Repositories, now time.Time, change *catalog.StockChange, m Movement) (*inventory.StockAlert, error) {
	if delta := change.Delta(); delta != 0 {
		entry, err := inventory.NewStockTransaction(change.Product.ID, m.Type, delta, m.UserID, m.Reference, m.Notes, now)
		if err != nil {
			return nil, err
		}
		if err := repos.StockTransactions().Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	alert := inventory.AlertForChange(change, now)
	if alert == nil {
		return nil, nil
	}
	if err := r.raise(ctx, repos, alert, change.OldStock, change.NewStock); err != nil {
		return nil, err
	}
	return alert, nil
}

// Open records the opening balance of a product that was just created. A
// product that starts at or below its threshold alerts immediately.
func (r *Recorder) Open(ctx context.Context, repos transaction.Repositories, now time.Time, product *catalog.Product, userID int64) (*inventory.StockAlert, error) {
	if product.StockQuantity > 0 {
		entry, err := inventory.NewStockTransaction(product.ID, inventory.TransactionTypePurchase, product.StockQuantity, userID, "", "Initial stock", now)
		if err != nil {
			return nil, err
		}
		if err := repos.StockTransactions().Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	if !product.IsLowStock() {
		return nil, nil
	}
	alertType := inventory.AlertTypeLowStock
	if product.StockQuantity == 0 {
		alertType = inventory.AlertTypeOutOfStock
	}
	alert := inventory.NewStockAlert(product, alertType, now)
	if err := r.raise(ctx, repos, alert, product.StockQuantity, product.StockQuantity); err != nil {
		return nil, err
	}
	return alert, nil
}

func (r *Recorder) raise(ctx context.Context, repos transaction.Repositories, alert *inventory.StockAlert, oldStock, newStock int) error {
	if err := repos.StockAlerts().Create(ctx, alert); err != nil {
		return err
	}
	r.metrics.AlertRaised(ctx, alert.AlertType.String())
	logger.L(ctx).Info("stock alert raised",
		zap.Int64("product_id", alert.ProductID),
		zap.String("alert_type", alert.AlertType.String()),
		zap.Int("old_stock", oldStock),
		zap.Int("new_stock", newStock),
	)
	return nil
}
