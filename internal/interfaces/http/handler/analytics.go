package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/smartinventory/backend/internal/application/inventory"
	reportapp "github.com/smartinventory/backend/internal/application/report"
)

// AnalyticsHandler handles dashboard, sales report and stock alert endpoints
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *reportapp.AnalyticsService
	stockService     *inventoryapp.StockService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *reportapp.AnalyticsService, stockService *inventoryapp.StockService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		stockService:     stockService,
	}
}

// SalesQuery bounds a sales report. Zero means the report's default.
type SalesQuery struct {
	Days   int `form:"days"`
	Months int `form:"months"`
}

// AlertQuery filters stock alerts
type AlertQuery struct {
	UnresolvedOnly *bool `form:"unresolvedOnly"`
}

// Dashboard handles GET /analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// DailySales handles GET /analytics/daily-sales
func (h *AnalyticsHandler) DailySales(c *gin.Context) {
	var q SalesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	sales, err := h.analyticsService.DailySales(c.Request.Context(), q.Days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// MonthlySales handles GET /analytics/monthly-sales
func (h *AnalyticsHandler) MonthlySales(c *gin.Context) {
	var q SalesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	sales, err := h.analyticsService.MonthlySales(c.Request.Context(), q.Months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// TopProducts handles GET /analytics/top-products
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	var q SalesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	products, err := h.analyticsService.TopProducts(c.Request.Context(), q.Days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// StockAlerts handles GET /analytics/stock-alerts. Unresolved alerts only
// unless unresolvedOnly=false.
func (h *AnalyticsHandler) StockAlerts(c *gin.Context) {
	var q AlertQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	unresolvedOnly := q.UnresolvedOnly == nil || *q.UnresolvedOnly
	alerts, err := h.stockService.ListAlerts(c.Request.Context(), unresolvedOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// ResolveAlert handles POST /analytics/stock-alerts/:id/resolve
func (h *AnalyticsHandler) ResolveAlert(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.stockService.ResolveAlert(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Alert resolved successfully"})
}
