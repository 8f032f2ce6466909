package inventory

import (
	"testing"
	"time"

	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateAlert(t *testing.T) {
	tests := []struct {
		name               string
		oldStock, newStock int
		minLevel           int
		want               AlertType
		raised             bool
	}{
		{"crosses into low stock", 15, 9, 10, AlertTypeLowStock, true},
		{"crosses exactly onto threshold", 11, 10, 10, AlertTypeLowStock, true},
		{"crosses to zero", 12, 0, 10, AlertTypeOutOfStock, true},
		{"already below", 9, 5, 10, "", false},
		{"already below to zero", 5, 0, 10, "", false},
		{"at threshold is not above", 10, 10, 10, "", false},
		{"increase below threshold", 5, 8, 10, "", false},
		{"increase across threshold", 5, 20, 10, "", false},
		{"decrease staying above", 30, 11, 10, "", false},
		{"zero threshold sellout", 1, 0, 0, AlertTypeOutOfStock, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, raised := EvaluateAlert(tt.oldStock, tt.newStock, tt.minLevel)
			assert.Equal(t, tt.raised, raised)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlertMessage(t *testing.T) {
	assert.Equal(t,
		"Product 'Blue Pen' is running low on stock. Current quantity: 9, Minimum level: 10",
		AlertMessage("Blue Pen", AlertTypeLowStock, 9, 10))
	assert.Equal(t,
		"Product 'Blue Pen' is out of stock. Current quantity: 0, Minimum level: 10",
		AlertMessage("Blue Pen", AlertTypeOutOfStock, 0, 10))
}

func TestAlertForChange(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	product := &catalog.Product{Name: "Ink", StockQuantity: 4, MinStockLevel: 5}
	product.ID = 3

	alert := AlertForChange(&catalog.StockChange{Product: product, OldStock: 8, NewStock: 4}, now)
	require.NotNil(t, alert)
	assert.Equal(t, int64(3), alert.ProductID)
	assert.Equal(t, AlertTypeLowStock, alert.AlertType)
	assert.False(t, alert.IsResolved)
	assert.Equal(t, now, alert.CreatedAt)
	assert.Contains(t, alert.Message, "Current quantity: 4, Minimum level: 5")

	assert.Nil(t, AlertForChange(&catalog.StockChange{Product: product, OldStock: 4, NewStock: 3}, now))
}

func TestStockAlert_Resolve(t *testing.T) {
	first := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	a := &StockAlert{}

	a.Resolve(first)
	a.Resolve(first.Add(time.Hour))

	assert.True(t, a.IsResolved)
	require.NotNil(t, a.ResolvedAt)
	assert.Equal(t, first, *a.ResolvedAt)
}
