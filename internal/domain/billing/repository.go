package billing

import (
	"context"
	"time"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// InvoiceFilter selects invoices for listings. From and To bound the
// invoice date inclusively.
type InvoiceFilter struct {
	From       *time.Time
	To         *time.Time
	CustomerID *int64
	Page       shared.Page
}

// InvoiceRepository persists invoices with their items.
type InvoiceRepository interface {
	// Create inserts the invoice and all of its items.
	Create(ctx context.Context, invoice *Invoice) error
	// FindByID loads items and display names.
	FindByID(ctx context.Context, id int64) (*Invoice, error)
	// List returns newest first, without items.
	List(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)
	// LastNumberWithPrefix returns the greatest invoice number starting with
	// prefix, or "" if there is none.
	LastNumberWithPrefix(ctx context.Context, prefix string) (string, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
}

// InvoiceSequence hands out per-day counters. Next returns a value strictly
// greater than every value it returned before for dateKey, and greater than
// floor.
type InvoiceSequence interface {
	Next(ctx context.Context, dateKey string, floor int) (int, error)
}
