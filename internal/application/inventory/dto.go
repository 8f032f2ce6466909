package inventory

import (
	"time"

	"github.com/smartinventory/backend/internal/domain/inventory"
)

// AdjustStockRequest is a manual quantity change.
type AdjustStockRequest struct {
	ProductID       int64
	Quantity        int
	TransactionType string
	Notes           string
	UserID          int64
}

// AdjustStockResponse reports the resulting quantity.
type AdjustStockResponse struct {
	Message  string              `json:"message"`
	NewStock int                 `json:"new_stock"`
	Alert    *StockAlertResponse `json:"alert,omitempty"`
}

// StockAlertResponse represents an alert in API responses
type StockAlertResponse struct {
	ID            int64      `json:"id"`
	ProductID     int64      `json:"product_id"`
	ProductName   string     `json:"product_name,omitempty"`
	ProductCode   string     `json:"product_code,omitempty"`
	AlertType     string     `json:"alert_type"`
	Message       string     `json:"message"`
	IsResolved    bool       `json:"is_resolved"`
	CurrentStock  int        `json:"current_stock"`
	MinStockLevel int        `json:"min_stock_level"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// StockTransactionResponse represents a ledger entry in API responses
type StockTransactionResponse struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	TransactionType string    `json:"transaction_type"`
	Quantity        int       `json:"quantity"`
	UserID          int64     `json:"user_id"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	TransactionDate time.Time `json:"transaction_date"`
}

// ToStockAlertResponse converts an alert detail to its response DTO
func ToStockAlertResponse(a *inventory.AlertDetail) StockAlertResponse {
	return StockAlertResponse{
		ID:            a.ID,
		ProductID:     a.ProductID,
		ProductName:   a.ProductName,
		ProductCode:   a.ProductCode,
		AlertType:     a.AlertType.String(),
		Message:       a.Message,
		IsResolved:    a.IsResolved,
		CurrentStock:  a.CurrentStock,
		MinStockLevel: a.MinStockLevel,
		CreatedAt:     a.CreatedAt,
		ResolvedAt:    a.ResolvedAt,
	}
}

// ToStockTransactionResponse converts a ledger entry to its response DTO
func ToStockTransactionResponse(t *inventory.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		TransactionType: t.TransactionType.String(),
		Quantity:        t.Quantity,
		UserID:          t.UserID,
		ReferenceNumber: t.ReferenceNumber,
		Notes:           t.Notes,
		TransactionDate: t.TransactionDate,
	}
}
