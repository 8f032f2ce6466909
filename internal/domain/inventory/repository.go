package inventory

import (
	"context"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// StockAlertRepository persists alerts.
type StockAlertRepository interface {
	Create(ctx context.Context, alert *StockAlert) error
	FindByID(ctx context.Context, id int64) (*StockAlert, error)
	// List returns newest first.
	List(ctx context.Context, unresolvedOnly bool) ([]AlertDetail, error)
	Save(ctx context.Context, alert *StockAlert) error
}

// StockTransactionRepository appends to and reads the stock ledger.
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *StockTransaction) error
	// ListByProduct returns newest first.
	ListByProduct(ctx context.Context, productID int64, page shared.Page) ([]StockTransaction, int64, error)
}
