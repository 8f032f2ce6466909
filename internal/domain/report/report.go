// Package report holds the read models behind the sales dashboard.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is the landing-page summary.
type DashboardStats struct {
	TodaySales     decimal.Decimal
	TodayInvoices  int64
	MonthSales     decimal.Decimal
	LowStockCount  int64
	TotalProducts  int64
	TotalCustomers int64
	ActiveAlerts   int64
}

// SalePoint is one invoice reduced to its date and total.
type SalePoint struct {
	InvoiceDate time.Time
	TotalAmount decimal.Decimal
}

// SalesPeriod aggregates the invoices of one day or month.
type SalesPeriod struct {
	Period        string
	TotalSales    decimal.Decimal
	TotalInvoices int64
	AverageSale   decimal.Decimal
}

// TopProduct ranks a product by revenue.
type TopProduct struct {
	ProductID    int64
	ProductName  string
	ProductCode  string
	QuantitySold int64
	Revenue      decimal.Decimal
}

// Repository runs the aggregate queries. Time bounds are half-open [from, to).
type Repository interface {
	SalesTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error)
	SalePoints(ctx context.Context, from, to time.Time) ([]SalePoint, error)
	TopProducts(ctx context.Context, since time.Time, limit int) ([]TopProduct, error)
	CountActiveProducts(ctx context.Context) (int64, error)
	CountLowStockProducts(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountUnresolvedAlerts(ctx context.Context) (int64, error)
}

// DashboardCache keeps a recent DashboardStats. A miss is (nil, nil).
type DashboardCache interface {
	Get(ctx context.Context) (*DashboardStats, error)
	Set(ctx context.Context, stats DashboardStats, ttl time.Duration) error
}
