// Package transaction defines the unit of work shared by the use cases that
// touch stock. Everything done through one Repositories value commits or
// rolls back together.
package transaction

import (
	"context"

	"github.com/smartinventory/backend/internal/domain/billing"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/inventory"
)

// Scope runs fn inside one database transaction. A non-nil error from fn
// rolls everything back.
type Scope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories share the transaction of the Scope that produced them.
type Repositories interface {
	Products() catalog.ProductRepository
	StockAlerts() inventory.StockAlertRepository
	StockTransactions() inventory.StockTransactionRepository
	Invoices() billing.InvoiceRepository
	InvoiceSequence() billing.InvoiceSequence
}

// StaticRepositories is a plain Repositories value, mostly for tests.
type StaticRepositories struct {
	ProductRepo          catalog.ProductRepository
	StockAlertRepo       inventory.StockAlertRepository
	StockTransactionRepo inventory.StockTransactionRepository
	InvoiceRepo          billing.InvoiceRepository
	SequenceRepo         billing.InvoiceSequence
}

func (r *StaticRepositories) Products() catalog.ProductRepository {
	return r.ProductRepo
}

func (r *StaticRepositories) StockAlerts() inventory.StockAlertRepository {
	return r.StockAlertRepo
}

func (r *StaticRepositories) StockTransactions() inventory.StockTransactionRepository {
	return r.StockTransactionRepo
}

func (r *StaticRepositories) Invoices() billing.InvoiceRepository {
	return r.InvoiceRepo
}

func (r *StaticRepositories) InvoiceSequence() billing.InvoiceSequence {
	return r.SequenceRepo
}

// NoOpScope calls fn with fixed repositories and no transaction.
type NoOpScope struct {
	Repos Repositories
}

func (s NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s.Repos)
}

var (
	_ Scope        = NoOpScope{}
	_ Repositories = (*StaticRepositories)(nil)
)
