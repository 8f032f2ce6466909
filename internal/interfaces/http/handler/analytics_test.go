package handler

import (
	"fmt"
	"net/http"
	"testing"

	inventoryapp "github.com/smartinventory/backend/internal/application/inventory"
	reportapp "github.com/smartinventory/backend/internal/application/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountAnalytics(f *fixture) {
	h := NewAnalyticsHandler(f.svc.Analytics, f.svc.Stock)
	f.engine.GET("/analytics/dashboard", h.Dashboard)
	f.engine.GET("/analytics/daily-sales", h.DailySales)
	f.engine.GET("/analytics/monthly-sales", h.MonthlySales)
	f.engine.GET("/analytics/top-products", h.TopProducts)
	f.engine.GET("/analytics/stock-alerts", h.StockAlerts)
	f.engine.POST("/analytics/stock-alerts/:id/resolve", h.ResolveAlert)
}

func TestAnalyticsHandler(t *testing.T) {
	f := newFixture(t)
	mountProducts(f)
	mountInvoices(f)
	mountAnalytics(f)

	pen := f.createProduct("PEN", 10, 8)
	f.createProduct("PAD", 1, 5)
	w := f.do(http.MethodPost, "/invoices", map[string]any{
		"items": []map[string]any{{"product_id": pen.ID, "quantity": 3}},
	})
	requireStatus(t, w, http.StatusCreated)

	t.Run("dashboard", func(t *testing.T) {
		w := f.do(http.MethodGet, "/analytics/dashboard", nil)
		requireStatus(t, w, http.StatusOK)
		d := decode[reportapp.DashboardResponse](t, w).Data
		assert.Equal(t, "7.5", d.TodaySales.String())
		assert.Equal(t, int64(1), d.TodayInvoices)
		assert.Equal(t, int64(2), d.TotalProducts)
		assert.Equal(t, int64(2), d.LowStockCount)
		assert.Equal(t, int64(2), d.ActiveAlerts)
	})

	t.Run("sales windows", func(t *testing.T) {
		w := f.do(http.MethodGet, "/analytics/daily-sales?days=3", nil)
		requireStatus(t, w, http.StatusOK)
		daily := decode[[]reportapp.SalesPeriodResponse](t, w).Data
		require.Len(t, daily, 3)
		assert.Equal(t, int64(1), daily[2].TotalInvoices)

		w = f.do(http.MethodGet, "/analytics/monthly-sales", nil)
		requireStatus(t, w, http.StatusOK)
		assert.Len(t, decode[[]reportapp.SalesPeriodResponse](t, w).Data, reportapp.DefaultSalesMonths)

		w = f.do(http.MethodGet, "/analytics/top-products?days=7", nil)
		requireStatus(t, w, http.StatusOK)
		top := decode[[]reportapp.TopProductResponse](t, w).Data
		require.Len(t, top, 1)
		assert.Equal(t, "PEN", top[0].ProductCode)
		assert.Equal(t, int64(3), top[0].QuantitySold)

		info := requireError(t, f.do(http.MethodGet, "/analytics/daily-sales?days=1000", nil), http.StatusBadRequest, "VALIDATION_ERROR")
		assert.Equal(t, "Days is out of range", info.Message)
		requireError(t, f.do(http.MethodGet, "/analytics/monthly-sales?months=abc", nil), http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("alerts", func(t *testing.T) {
		w := f.do(http.MethodGet, "/analytics/stock-alerts", nil)
		requireStatus(t, w, http.StatusOK)
		alerts := decode[[]inventoryapp.StockAlertResponse](t, w).Data
		require.Len(t, alerts, 2)
		assert.Equal(t, "PEN", alerts[0].ProductCode)

		w = f.do(http.MethodPost, fmt.Sprintf("/analytics/stock-alerts/%d/resolve", alerts[0].ID), nil)
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "Alert resolved successfully", decode[map[string]string](t, w).Data["message"])

		w = f.do(http.MethodGet, "/analytics/stock-alerts", nil)
		assert.Len(t, decode[[]inventoryapp.StockAlertResponse](t, w).Data, 1)

		w = f.do(http.MethodGet, "/analytics/stock-alerts?unresolvedOnly=false", nil)
		all := decode[[]inventoryapp.StockAlertResponse](t, w).Data
		require.Len(t, all, 2)

		requireError(t, f.do(http.MethodPost, "/analytics/stock-alerts/999/resolve", nil), http.StatusNotFound, "NOT_FOUND")
	})
}
