package report

import (
	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/domain/report"
)

const (
	DefaultSalesDays      = 7
	DefaultSalesMonths    = 6
	DefaultTopProductDays = 30
	TopProductLimit       = 10

	maxSalesDays   = 366
	maxSalesMonths = 36
)

// DashboardResponse is the landing-page summary
type DashboardResponse struct {
	TodaySales     decimal.Decimal `json:"today_sales"`
	TodayInvoices  int64           `json:"today_invoices"`
	MonthSales     decimal.Decimal `json:"month_sales"`
	LowStockCount  int64           `json:"low_stock_count"`
	TotalProducts  int64           `json:"total_products"`
	TotalCustomers int64           `json:"total_customers"`
	ActiveAlerts   int64           `json:"active_alerts"`
}

// SalesPeriodResponse aggregates the invoices of one day or month
type SalesPeriodResponse struct {
	Period        string          `json:"period"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalInvoices int64           `json:"total_invoices"`
	AverageSale   decimal.Decimal `json:"average_sale"`
}

// TopProductResponse ranks a product by revenue
type TopProductResponse struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductCode  string          `json:"product_code"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

func toDashboardResponse(s report.DashboardStats) DashboardResponse {
	return DashboardResponse{
		TodaySales:     s.TodaySales,
		TodayInvoices:  s.TodayInvoices,
		MonthSales:     s.MonthSales,
		LowStockCount:  s.LowStockCount,
		TotalProducts:  s.TotalProducts,
		TotalCustomers: s.TotalCustomers,
		ActiveAlerts:   s.ActiveAlerts,
	}
}

func toSalesPeriodResponses(periods []report.SalesPeriod) []SalesPeriodResponse {
	out := make([]SalesPeriodResponse, len(periods))
	for i, p := range periods {
		out[i] = SalesPeriodResponse{
			Period:        p.Period,
			TotalSales:    p.TotalSales,
			TotalInvoices: p.TotalInvoices,
			AverageSale:   p.AverageSale,
		}
	}
	return out
}
