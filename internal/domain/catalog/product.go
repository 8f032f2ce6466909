package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/domain/shared"
)

const (
	DefaultMinStockLevel = 10
	DefaultUnit          = "pcs"

	maxCodeLength = 50
	maxNameLength = 200
	maxUnitLength = 20
)

// Product is a sellable catalog entry and the authoritative holder of its
// on-hand quantity. Stock only changes through the repository's atomic
// adjustment methods or SetFields.
type Product struct {
	shared.BaseEntity
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	CategoryID    *int64          `gorm:"index"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	StockQuantity int             `gorm:"not null"`
	MinStockLevel int             `gorm:"not null"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	ImageURL      string          `gorm:"type:varchar(500)"`
	IsActive      bool            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductFields are the editable attributes of a product. Catalog edits
// replace all of them at once.
type ProductFields struct {
	Name          string
	Description   string
	CategoryID    *int64
	UnitPrice     decimal.Decimal
	StockQuantity int
	MinStockLevel int
	Unit          string
	ImageURL      string
	IsActive      bool
}

// NewProduct creates an active product.
func NewProduct(code string, fields ProductFields, now time.Time) (*Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewValidationError("Product code is required")
	}
	if len(code) > maxCodeLength {
		return nil, shared.NewValidationError(fmt.Sprintf("Product code cannot exceed %d characters", maxCodeLength))
	}

	fields.IsActive = true
	p := &Product{Code: code}
	if err := p.apply(fields); err != nil {
		return nil, err
	}
	p.Touch(now)
	return p, nil
}

// SetFields replaces every editable field and returns the stock quantity the
// product had before the change.
func (p *Product) SetFields(fields ProductFields, now time.Time) (oldStock int, err error) {
	oldStock = p.StockQuantity
	if err := p.apply(fields); err != nil {
		return oldStock, err
	}
	p.UpdatedAt = now
	return oldStock, nil
}

func (p *Product) apply(f ProductFields) error {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return shared.NewValidationError("Product name is required")
	}
	if len(name) > maxNameLength {
		return shared.NewValidationError(fmt.Sprintf("Product name cannot exceed %d characters", maxNameLength))
	}
	if f.UnitPrice.IsNegative() {
		return shared.NewValidationError("Unit price cannot be negative")
	}
	if f.StockQuantity < 0 {
		return shared.NewValidationError("Stock quantity cannot be negative")
	}
	if f.MinStockLevel < 0 {
		return shared.NewValidationError("Minimum stock level cannot be negative")
	}
	unit := strings.TrimSpace(f.Unit)
	if unit == "" {
		unit = DefaultUnit
	}
	if len(unit) > maxUnitLength {
		return shared.NewValidationError(fmt.Sprintf("Unit cannot exceed %d characters", maxUnitLength))
	}

	p.Name = name
	p.Description = f.Description
	p.CategoryID = f.CategoryID
	p.UnitPrice = f.UnitPrice.Round(2)
	p.StockQuantity = f.StockQuantity
	p.MinStockLevel = f.MinStockLevel
	p.Unit = unit
	p.ImageURL = f.ImageURL
	p.IsActive = f.IsActive
	return nil
}

// Deactivate soft-deletes the product. It stays readable by id.
func (p *Product) Deactivate(now time.Time) {
	p.IsActive = false
	p.UpdatedAt = now
}

// IsLowStock is derived on every call and never persisted.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// CanFulfil checks whether quantity units are on hand.
func (p *Product) CanFulfil(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("Quantity must be greater than zero")
	}
	if p.StockQuantity < quantity {
		return &InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   quantity,
			Available:   p.StockQuantity,
		}
	}
	return nil
}

// LineTotal prices quantity units at the current unit price.
func (p *Product) LineTotal(quantity int) decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// StockChange is the outcome of an atomic quantity change.
type StockChange struct {
	Product  *Product
	OldStock int
	NewStock int
}

// Delta returns NewStock - OldStock.
func (c StockChange) Delta() int {
	return c.NewStock - c.OldStock
}
