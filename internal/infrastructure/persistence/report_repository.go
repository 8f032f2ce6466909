package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/inventory"
	"github.com/smartinventory/backend/internal/domain/partner"
	"github.com/smartinventory/backend/internal/domain/report"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with aggregate queries
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

type salesTotalRow struct {
	Total decimal.NullDecimal
	Count int64
}

// SalesTotal sums invoice totals in [from, to)
func (r *GormReportRepository) SalesTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, error) {
	var row salesTotalRow
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select("SUM(total_amount) AS total, COUNT(*) AS count").
		Where("invoice_date >= ? AND invoice_date < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	if !row.Total.Valid {
		return decimal.Zero, row.Count, nil
	}
	return row.Total.Decimal, row.Count, nil
}

// SalePoints returns the date and total of every invoice in [from, to).
// Bucketing happens in Go so the query stays portable across drivers.
func (r *GormReportRepository) SalePoints(ctx context.Context, from, to time.Time) ([]report.SalePoint, error) {
	var points []report.SalePoint
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select("invoice_date, total_amount").
		Where("invoice_date >= ? AND invoice_date < ?", from, to).
		Order("invoice_date ASC").
		Scan(&points).Error
	return points, err
}

// TopProducts ranks products by revenue on invoices since the given time
func (r *GormReportRepository) TopProducts(ctx context.Context, since time.Time, limit int) ([]report.TopProduct, error) {
	var products []report.TopProduct
	err := r.db.WithContext(ctx).
		Table("invoice_items").
		Select("products.id AS product_id, products.name AS product_name, products.code AS product_code, "+
			"SUM(invoice_items.quantity) AS quantity_sold, SUM(invoice_items.total_price) AS revenue").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Joins("JOIN products ON products.id = invoice_items.product_id").
		Where("invoices.invoice_date >= ?", since).
		Group("products.id, products.name, products.code").
		Order("revenue DESC").
		Order("products.id ASC").
		Limit(limit).
		Scan(&products).Error
	return products, err
}

// CountActiveProducts counts products that are still sold
func (r *GormReportRepository) CountActiveProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// CountLowStockProducts counts active products at or below their minimum
func (r *GormReportRepository) CountLowStockProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("is_active = ? AND stock_quantity <= min_stock_level", true).
		Count(&count).Error
	return count, err
}

// CountCustomers counts customer records
func (r *GormReportRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&partner.Customer{}).Count(&count).Error
	return count, err
}

// CountUnresolvedAlerts counts open stock alerts
func (r *GormReportRepository) CountUnresolvedAlerts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.StockAlert{}).
		Where("is_resolved = ?", false).
		Count(&count).Error
	return count, err
}

// Ensure GormReportRepository implements report.Repository
var _ report.Repository = (*GormReportRepository)(nil)
