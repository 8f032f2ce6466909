package persistence

import (
	"context"

	"github.com/smartinventory/backend/internal/domain/inventory"
	"github.com/smartinventory/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockTransactionRepository implements StockTransactionRepository using GORM
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *GormStockTransactionRepository) Create(ctx context.Context, tx *inventory.StockTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListByProduct returns one page of a product's ledger, newest first
func (r *GormStockTransactionRepository) ListByProduct(ctx context.Context, productID int64, page shared.Page) ([]inventory.StockTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockTransaction{}).Where("product_id = ?", productID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page = page.Normalize()
	var txs []inventory.StockTransaction
	if err := query.
		Order("transaction_date DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// Ensure GormStockTransactionRepository implements StockTransactionRepository
var _ inventory.StockTransactionRepository = (*GormStockTransactionRepository)(nil)
