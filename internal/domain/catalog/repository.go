package catalog

import (
	"context"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// ProductFilter selects products for listings.
type ProductFilter struct {
	Search       string
	CategoryID   *int64
	LowStockOnly bool
	ActiveOnly   bool
	OrderBy      string
	OrderDir     string
	Page         shared.Page
}

// ProductRepository is the product ledger. The stock methods are atomic
// with respect to concurrent callers: a decrement never observes a value
// another decrement has already consumed.
type ProductRepository interface {
	// FindByID returns inactive products too.
	FindByID(ctx context.Context, id int64) (*Product, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	CountActiveByCategory(ctx context.Context, categoryID int64) (int64, error)
	Create(ctx context.Context, product *Product) error
	// Save writes every editable field. It fails with a CONFLICT error when
	// the stored stock quantity no longer equals expectedStock, so a catalog
	// edit cannot overwrite a sale it never saw.
	Save(ctx context.Context, product *Product, expectedStock int) error

	// DecrementStock removes quantity units if at least that many are on
	// hand, else returns *InsufficientStockError.
	DecrementStock(ctx context.Context, id int64, quantity int) (*StockChange, error)
	// IncrementStock adds delta, which may be negative. The result is never
	// below zero; such a change returns *InsufficientStockError.
	IncrementStock(ctx context.Context, id int64, delta int) (*StockChange, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*Category, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	ListWithProductCounts(ctx context.Context) ([]CategorySummary, error)
	Create(ctx context.Context, category *Category) error
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id int64) error
}
