package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code          string
	Name          string
	Description   string
	CategoryID    *int64
	UnitPrice     decimal.Decimal
	StockQuantity int
	// MinStockLevel defaults to catalog.DefaultMinStockLevel when nil.
	MinStockLevel *int
	Unit          string
	ImageURL      string
	UserID        int64
}

// UpdateProductRequest replaces every editable field of a product. A nil
// IsActive keeps the current flag.
type UpdateProductRequest struct {
	Name          string
	Description   string
	CategoryID    *int64
	UnitPrice     decimal.Decimal
	StockQuantity int
	MinStockLevel int
	Unit          string
	ImageURL      string
	IsActive      *bool
	UserID        int64
}

// ProductListFilter selects products. A nil ActiveOnly means true.
type ProductListFilter struct {
	Search       string
	CategoryID   *int64
	LowStockOnly bool
	ActiveOnly   *bool
	OrderBy      string
	OrderDir     string
	Page         int
	PageSize     int
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    *int64          `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Unit          string          `json:"unit"`
	ImageURL      string          `json:"image_url"`
	IsActive      bool            `json:"is_active"`
	IsLowStock    bool            `json:"is_low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CategoryRequest creates or renames a category
type CategoryRequest struct {
	Name        string
	Description string
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToProductResponse converts a product to its response DTO
func ToProductResponse(p *catalog.Product, categoryName string) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		CategoryName:  categoryName,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Unit:          p.Unit,
		ImageURL:      p.ImageURL,
		IsActive:      p.IsActive,
		IsLowStock:    p.IsLowStock(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToCategoryResponse converts a category summary to its response DTO
func ToCategoryResponse(c *catalog.CategorySummary) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ProductCount: c.ProductCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
