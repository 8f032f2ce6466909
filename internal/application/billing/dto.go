package billing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/domain/billing"
)

const (
	defaultPaymentMethod = string(billing.PaymentMethodCash)
	defaultPaymentStatus = string(billing.PaymentStatusPaid)
)

// InvoiceItemRequest is one cart line
type InvoiceItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CreateInvoiceRequest represents a checkout. Empty payment fields default
// to Cash and Paid.
type CreateInvoiceRequest struct {
	CustomerID     *int64               `json:"customer_id"`
	Items          []InvoiceItemRequest `json:"items"`
	TaxAmount      decimal.Decimal      `json:"tax_amount"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	PaymentMethod  string               `json:"payment_method"`
	PaymentStatus  string               `json:"payment_status"`
	Notes          string               `json:"notes"`

	// Set from the authenticated session, never from the body.
	UserID int64 `json:"-"`
}

// InvoiceListFilter selects invoices. From and To are inclusive.
type InvoiceListFilter struct {
	From       *time.Time
	To         *time.Time
	CustomerID *int64
	Page       int
	PageSize   int
}

// InvoiceItemResponse represents an invoice line in API responses
type InvoiceItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// InvoiceResponse represents an invoice in API responses. Items is empty in
// listings.
type InvoiceResponse struct {
	ID             int64                 `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	CustomerID     *int64                `json:"customer_id"`
	CustomerName   string                `json:"customer_name"`
	UserID         int64                 `json:"user_id"`
	UserName       string                `json:"user_name"`
	InvoiceDate    time.Time             `json:"invoice_date"`
	SubTotal       decimal.Decimal       `json:"sub_total"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	PaymentMethod  string                `json:"payment_method"`
	PaymentStatus  string                `json:"payment_status"`
	Notes          string                `json:"notes"`
	Items          []InvoiceItemResponse `json:"items"`
}

// NextNumberResponse previews the next invoice number
type NextNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

// ToInvoiceResponse converts an invoice to its response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		}
	}
	return InvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID,
		CustomerName:   inv.CustomerLabel(),
		UserID:         inv.UserID,
		UserName:       inv.UserName,
		InvoiceDate:    inv.InvoiceDate,
		SubTotal:       inv.SubTotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		TotalAmount:    inv.TotalAmount,
		PaymentMethod:  string(inv.PaymentMethod),
		PaymentStatus:  string(inv.PaymentStatus),
		Notes:          inv.Notes,
		Items:          items,
	}
}
