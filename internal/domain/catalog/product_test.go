package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func validFields() ProductFields {
	return ProductFields{
		Name:          "Blue Pen",
		UnitPrice:     decimal.RequireFromString("1.25"),
		StockQuantity: 40,
		MinStockLevel: DefaultMinStockLevel,
	}
}

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(" PEN-01 ", validFields(), testNow)
	require.NoError(t, err)

	assert.Equal(t, "PEN-01", p.Code)
	assert.Equal(t, DefaultUnit, p.Unit)
	assert.True(t, p.IsActive)
	assert.Equal(t, testNow, p.CreatedAt)
	assert.Equal(t, testNow, p.UpdatedAt)
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		mutate func(*ProductFields)
		msg    string
	}{
		{"missing code", "", func(*ProductFields) {}, "Product code is required"},
		{"missing name", "X", func(f *ProductFields) { f.Name = "  " }, "Product name is required"},
		{"negative price", "X", func(f *ProductFields) { f.UnitPrice = decimal.NewFromInt(-1) }, "Unit price cannot be negative"},
		{"negative stock", "X", func(f *ProductFields) { f.StockQuantity = -1 }, "Stock quantity cannot be negative"},
		{"negative min level", "X", func(f *ProductFields) { f.MinStockLevel = -1 }, "Minimum stock level cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			_, err := NewProduct(tt.code, f, testNow)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrValidation))
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}

func TestProduct_IsLowStock(t *testing.T) {
	tests := []struct {
		stock, min int
		want       bool
	}{
		{11, 10, false},
		{10, 10, true},
		{0, 10, true},
		{0, 0, true},
		{1, 0, false},
	}
	for _, tt := range tests {
		p := &Product{StockQuantity: tt.stock, MinStockLevel: tt.min}
		assert.Equal(t, tt.want, p.IsLowStock(), "stock=%d min=%d", tt.stock, tt.min)
	}
}

func TestProduct_SetFields(t *testing.T) {
	p, err := NewProduct("PEN-01", validFields(), testNow)
	require.NoError(t, err)

	later := testNow.Add(time.Hour)
	f := validFields()
	f.StockQuantity = 5
	f.IsActive = false
	old, err := p.SetFields(f, later)
	require.NoError(t, err)

	assert.Equal(t, 40, old)
	assert.Equal(t, 5, p.StockQuantity)
	assert.False(t, p.IsActive)
	assert.Equal(t, later, p.UpdatedAt)
	assert.Equal(t, testNow, p.CreatedAt)
}

func TestProduct_SetFieldsRejectsAndKeepsState(t *testing.T) {
	p, err := NewProduct("PEN-01", validFields(), testNow)
	require.NoError(t, err)

	f := validFields()
	f.Name = ""
	_, err = p.SetFields(f, testNow)
	require.Error(t, err)
	assert.Equal(t, "Blue Pen", p.Name)
}

func TestProduct_CanFulfil(t *testing.T) {
	p := &Product{Name: "Stapler", StockQuantity: 3}
	p.ID = 7

	assert.NoError(t, p.CanFulfil(3))

	err := p.CanFulfil(5)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, "Insufficient stock for product 'Stapler'. Available: 3, Requested: 5", err.Error())
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)

	assert.True(t, errors.Is(p.CanFulfil(0), shared.ErrValidation))
}

func TestProduct_LineTotal(t *testing.T) {
	p := &Product{UnitPrice: decimal.RequireFromString("5.50")}
	assert.True(t, decimal.RequireFromString("16.50").Equal(p.LineTotal(3)))
}

func TestNewProductNotFoundError(t *testing.T) {
	err := NewProductNotFoundError(42)
	assert.Equal(t, "Product with ID 42 not found", err.Error())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestCategory(t *testing.T) {
	c, err := NewCategory(" Stationery ", "desk things", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Stationery", c.Name)

	err = c.Update("", "", testNow)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}
