package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/shared"
	"gorm.io/gorm"
)

const (
	decrementStockSQL = `UPDATE products SET stock_quantity = stock_quantity - ?, updated_at = ? ` +
		`WHERE id = ? AND stock_quantity >= ?`
	incrementStockSQL = `UPDATE products SET stock_quantity = stock_quantity + ?, updated_at = ? ` +
		`WHERE id = ? AND stock_quantity + ? >= 0`
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NewProductNotFoundError(id)
		}
		return nil, err
	}
	return &product, nil
}

// ExistsByCode checks codes across active and inactive products.
func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns one page of products matching the filter and the total match count
func (r *GormProductRepository) List(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.LowStockOnly {
		query = query.Where("stock_quantity <= min_stock_level")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var products []catalog.Product
	if err := query.
		Order(productSortColumns.Order(filter.OrderBy, filter.OrderDir, "name")).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// CountActiveByCategory counts active products referencing the category
func (r *GormProductRepository) CountActiveByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&count).Error
	return count, err
}

// Create inserts a product
func (r *GormProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isDuplicateKey(err) {
			return catalog.ErrProductCodeExists
		}
		return err
	}
	return nil
}

// Save writes every editable field, guarded by the stock the caller read.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product, expectedStock int) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("id = ? AND stock_quantity = ?", product.ID, expectedStock).
		Updates(map[string]any{
			"name":            product.Name,
			"description":     product.Description,
			"category_id":     product.CategoryID,
			"unit_price":      product.UnitPrice,
			"stock_quantity":  product.StockQuantity,
			"min_stock_level": product.MinStockLevel,
			"unit":            product.Unit,
			"image_url":       product.ImageURL,
			"is_active":       product.IsActive,
			"updated_at":      product.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, product.ID); err != nil {
			return err
		}
		return catalog.ErrProductModified
	}
	return nil
}

// DecrementStock removes quantity units in one conditional statement. The
// guard and the write happen in the same row update, so concurrent
// decrements can never both consume the last units. Call it inside a
// transaction scope: the row lock taken by the update keeps the re-read
// consistent with it.
func (r *GormProductRepository) DecrementStock(ctx context.Context, id int64, quantity int) (*catalog.StockChange, error) {
	if quantity <= 0 {
		return nil, shared.NewValidationError("Quantity must be greater than zero")
	}

	product, err := r.updateStock(ctx, decrementStockSQL, id, quantity)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, r.rejection(ctx, id, quantity)
	}
	return &catalog.StockChange{
		Product:  product,
		OldStock: product.StockQuantity + quantity,
		NewStock: product.StockQuantity,
	}, nil
}

// IncrementStock adds delta in one conditional statement. A negative delta
// that would take the quantity below zero changes nothing.
func (r *GormProductRepository) IncrementStock(ctx context.Context, id int64, delta int) (*catalog.StockChange, error) {
	product, err := r.updateStock(ctx, incrementStockSQL, id, delta)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, r.rejection(ctx, id, -delta)
	}
	return &catalog.StockChange{
		Product:  product,
		OldStock: product.StockQuantity - delta,
		NewStock: product.StockQuantity,
	}, nil
}

// updateStock runs one of the guarded stock statements and returns the
// updated row, or nil when the guard matched nothing.
func (r *GormProductRepository) updateStock(ctx context.Context, statement string, id int64, amount int) (*catalog.Product, error) {
	result := r.db.WithContext(ctx).Exec(statement, amount, r.db.NowFunc(), id, amount)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

// rejection explains why a guarded update matched no row.
func (r *GormProductRepository) rejection(ctx context.Context, id int64, requested int) error {
	product, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return &catalog.InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Requested:   requested,
		Available:   product.StockQuantity,
	}
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
