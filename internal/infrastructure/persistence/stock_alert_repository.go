package persistence

import (
	"context"
	"errors"

	"github.com/smartinventory/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormStockAlertRepository implements StockAlertRepository using GORM
type GormStockAlertRepository struct {
	db *gorm.DB
}

// NewGormStockAlertRepository creates a new GormStockAlertRepository
func NewGormStockAlertRepository(db *gorm.DB) *GormStockAlertRepository {
	return &GormStockAlertRepository{db: db}
}

// Create inserts an alert
func (r *GormStockAlertRepository) Create(ctx context.Context, alert *inventory.StockAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// FindByID finds an alert by ID
func (r *GormStockAlertRepository) FindByID(ctx context.Context, id int64) (*inventory.StockAlert, error) {
	var alert inventory.StockAlert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, inventory.ErrAlertNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// List returns alerts with their product's current levels, newest first
func (r *GormStockAlertRepository) List(ctx context.Context, unresolvedOnly bool) ([]inventory.AlertDetail, error) {
	query := r.db.WithContext(ctx).
		Table("stock_alerts").
		Select("stock_alerts.*, products.name AS product_name, products.code AS product_code, " +
			"products.stock_quantity AS current_stock, products.min_stock_level AS min_stock_level").
		Joins("JOIN products ON products.id = stock_alerts.product_id")
	if unresolvedOnly {
		query = query.Where("stock_alerts.is_resolved = ?", false)
	}

	var alerts []inventory.AlertDetail
	if err := query.
		Order("stock_alerts.created_at DESC").
		Order("stock_alerts.id DESC").
		Scan(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Save updates an alert
func (r *GormStockAlertRepository) Save(ctx context.Context, alert *inventory.StockAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// Ensure GormStockAlertRepository implements StockAlertRepository
var _ inventory.StockAlertRepository = (*GormStockAlertRepository)(nil)
