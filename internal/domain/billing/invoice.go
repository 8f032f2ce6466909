package billing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/shared"
)

// WalkInCustomer labels invoices issued without a customer record.
const WalkInCustomer = "Walk-in Customer"

// Invoice is an issued sale. It is immutable once persisted.
type Invoice struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	InvoiceNumber  string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID     *int64          `gorm:"index"`
	UserID         int64           `gorm:"not null;index"`
	InvoiceDate    time.Time       `gorm:"not null;index"`
	SubTotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null"`
	Notes          string          `gorm:"type:text"`
	CreatedAt      time.Time       `gorm:"not null"`
	Items          []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	// Filled by read queries.
	CustomerName string `gorm:"->;-:migration"`
	UserName     string `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one priced line. UnitPrice is frozen at sale time.
type InvoiceItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	InvoiceID  int64           `gorm:"not null;index"`
	ProductID  int64           `gorm:"not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	ProductName string `gorm:"->;-:migration"`
	ProductCode string `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceDraft is the cart-level input of a new invoice.
type InvoiceDraft struct {
	CustomerID     *int64
	UserID         int64
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	PaymentMethod  PaymentMethod
	PaymentStatus  PaymentStatus
	Notes          string
}

var ErrEmptyInvoice = shared.NewValidationError("Invoice must have at least one item")

// NewInvoice starts an invoice from a draft. Items are added with AddItem
// and the number is assigned by Issue.
func NewInvoice(d InvoiceDraft) (*Invoice, error) {
	if d.UserID <= 0 {
		return nil, shared.NewValidationError("Acting user is required")
	}
	if !d.PaymentMethod.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}
	if !d.PaymentStatus.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}
	if d.TaxAmount.IsNegative() {
		return nil, shared.NewValidationError("Tax amount cannot be negative")
	}
	if d.DiscountAmount.IsNegative() {
		return nil, shared.NewValidationError("Discount amount cannot be negative")
	}

	inv := &Invoice{
		CustomerID:     d.CustomerID,
		UserID:         d.UserID,
		TaxAmount:      d.TaxAmount.Round(2),
		DiscountAmount: d.DiscountAmount.Round(2),
		PaymentMethod:  d.PaymentMethod,
		PaymentStatus:  d.PaymentStatus,
		Notes:          strings.TrimSpace(d.Notes),
	}
	inv.recalculate()
	return inv, nil
}

// AddItem appends a line priced at product's current unit price. The caller
// checks availability first.
func (inv *Invoice) AddItem(product *catalog.Product, quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("Quantity must be greater than zero")
	}
	inv.Items = append(inv.Items, InvoiceItem{
		ProductID:   product.ID,
		Quantity:    quantity,
		UnitPrice:   product.UnitPrice,
		TotalPrice:  product.LineTotal(quantity).Round(2),
		ProductName: product.Name,
		ProductCode: product.Code,
	})
	inv.recalculate()
	return nil
}

func (inv *Invoice) recalculate() {
	sub := decimal.Zero
	for _, item := range inv.Items {
		sub = sub.Add(item.TotalPrice)
	}
	inv.SubTotal = sub
	inv.TotalAmount = sub.Add(inv.TaxAmount).Sub(inv.DiscountAmount)
}

// Issue assigns the number and timestamp. It fails for an empty invoice or
// a discount larger than subtotal plus tax, so a total is never negative.
func (inv *Invoice) Issue(number string, now time.Time) error {
	if len(inv.Items) == 0 {
		return ErrEmptyInvoice
	}
	if inv.TotalAmount.IsNegative() {
		return shared.NewValidationError("Discount cannot exceed subtotal plus tax")
	}
	inv.InvoiceNumber = number
	inv.InvoiceDate = now
	inv.CreatedAt = now
	return nil
}

// CustomerLabel is the display name of the invoice's customer.
func (inv *Invoice) CustomerLabel() string {
	if inv.CustomerID == nil || inv.CustomerName == "" {
		return WalkInCustomer
	}
	return inv.CustomerName
}

var (
	ErrInvoiceNotFound    = shared.NewNotFoundError("Invoice not found")
	ErrInvoiceNumberTaken = shared.NewDomainError(shared.CodeConflict, "Invoice number already issued, please retry")
)
