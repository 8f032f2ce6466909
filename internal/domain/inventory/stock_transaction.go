package inventory

import (
	"strings"
	"time"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// TransactionType represents the reason for a quantity change
type TransactionType string

const (
	TransactionTypePurchase   TransactionType = "Purchase"
	TransactionTypeSale       TransactionType = "Sale"
	TransactionTypeAdjustment TransactionType = "Adjustment"
	TransactionTypeReturn     TransactionType = "Return"
)

func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is recognized
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeSale, TransactionTypeAdjustment, TransactionTypeReturn:
		return true
	}
	return false
}

// IsManual reports whether the type may be recorded by a manual adjustment.
// Sales only originate from invoices.
func (t TransactionType) IsManual() bool {
	return t.IsValid() && t != TransactionTypeSale
}

var (
	ErrInvalidTransactionType = shared.NewValidationError("Invalid transaction type")
	ErrSaleNotManual          = shared.NewValidationError("Sale transactions can only be created by invoices")
)

// ParseTransactionType accepts the exact enum names.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.TrimSpace(s))
	if !t.IsValid() {
		return "", ErrInvalidTransactionType
	}
	return t, nil
}

// StockTransaction is an append-only entry for one quantity change.
type StockTransaction struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	ProductID       int64           `gorm:"not null;index"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null"`
	Quantity        int             `gorm:"not null"`
	UserID          int64           `gorm:"not null;index"`
	ReferenceNumber string          `gorm:"type:varchar(50);index"`
	Notes           string          `gorm:"type:text"`
	TransactionDate time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction validates and builds a ledger entry. quantity is the
// signed delta applied to the product.
func NewStockTransaction(productID int64, t TransactionType, quantity int, userID int64, reference, notes string, now time.Time) (*StockTransaction, error) {
	if !t.IsValid() {
		return nil, ErrInvalidTransactionType
	}
	if quantity == 0 {
		return nil, shared.NewValidationError("Quantity cannot be zero")
	}
	if userID <= 0 {
		return nil, shared.NewValidationError("Acting user is required")
	}
	return &StockTransaction{
		ProductID:       productID,
		TransactionType: t,
		Quantity:        quantity,
		UserID:          userID,
		ReferenceNumber: reference,
		Notes:           notes,
		TransactionDate: now,
	}, nil
}
