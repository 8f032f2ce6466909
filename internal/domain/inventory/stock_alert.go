package inventory

import (
	"time"

	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/shared"
)

// AlertType classifies a stock alert
type AlertType string

const (
	AlertTypeLowStock   AlertType = "LowStock"
	AlertTypeOutOfStock AlertType = "OutOfStock"
	AlertTypeReordered  AlertType = "Reordered"
)

func (t AlertType) String() string {
	return string(t)
}

// IsValid returns true if the alert type is recognized
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeLowStock, AlertTypeOutOfStock, AlertTypeReordered:
		return true
	}
	return false
}

// StockAlert records a threshold crossing. It is only ever resolved, never
// deleted or reopened.
type StockAlert struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ProductID  int64     `gorm:"not null;index"`
	AlertType  AlertType `gorm:"type:varchar(20);not null"`
	Message    string    `gorm:"column:alert_message;type:varchar(500);not null"`
	IsResolved bool      `gorm:"not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	ResolvedAt *time.Time
}

// TableName returns the table name for GORM
func (StockAlert) TableName() string {
	return "stock_alerts"
}

// NewStockAlert builds an unresolved alert for product at its current levels.
func NewStockAlert(product *catalog.Product, alertType AlertType, now time.Time) *StockAlert {
	return &StockAlert{
		ProductID: product.ID,
		AlertType: alertType,
		Message:   AlertMessage(product.Name, alertType, product.StockQuantity, product.MinStockLevel),
		CreatedAt: now,
	}
}

// AlertForChange runs the crossing rule on change and returns the alert to
// persist, or nil.
func AlertForChange(change *catalog.StockChange, now time.Time) *StockAlert {
	alertType, ok := EvaluateAlert(change.OldStock, change.NewStock, change.Product.MinStockLevel)
	if !ok {
		return nil
	}
	return NewStockAlert(change.Product, alertType, now)
}

// Resolve marks the alert handled. Resolving twice keeps the first timestamp.
func (a *StockAlert) Resolve(now time.Time) {
	if a.IsResolved {
		return
	}
	a.IsResolved = true
	a.ResolvedAt = &now
}

// AlertDetail is an alert joined with its product's current levels.
type AlertDetail struct {
	StockAlert
	ProductName   string
	ProductCode   string
	CurrentStock  int
	MinStockLevel int
}

var ErrAlertNotFound = shared.NewNotFoundError("Alert not found")
