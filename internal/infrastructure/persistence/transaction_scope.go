package persistence

import (
	"context"

	"github.com/smartinventory/backend/internal/application/transaction"
	"github.com/smartinventory/backend/internal/domain/billing"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope implements transaction.Scope using GORM transactions.
type GormTransactionScope struct {
	db       *gorm.DB
	sequence billing.InvoiceSequence
}

// ScopeOption configures a GormTransactionScope
type ScopeOption func(*GormTransactionScope)

// WithInvoiceSequence replaces the counter-table sequence, e.g. with Redis.
// The replacement is not part of the database transaction.
func WithInvoiceSequence(seq billing.InvoiceSequence) ScopeOption {
	return func(s *GormTransactionScope) {
		s.sequence = seq
	}
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, opts ...ScopeOption) *GormTransactionScope {
	s := &GormTransactionScope{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs fn within a database transaction. If fn returns an error
// the transaction is rolled back, otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos transaction.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, sequence: s.sequence})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx       *gorm.DB
	sequence billing.InvoiceSequence
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockAlerts() inventory.StockAlertRepository {
	return NewGormStockAlertRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockTransactions() inventory.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

func (r *gormTransactionalRepositories) Invoices() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepositories) InvoiceSequence() billing.InvoiceSequence {
	if r.sequence != nil {
		return r.sequence
	}
	return NewGormInvoiceSequence(r.tx)
}

// Ensure GormTransactionScope implements Scope
var _ transaction.Scope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements Repositories
var _ transaction.Repositories = (*gormTransactionalRepositories)(nil)
