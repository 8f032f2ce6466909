package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/smartinventory/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// nextSequenceSQL claims the next value for a day. The insert seeds the row
// at floor+1; on conflict the stored value moves to the larger of its
// successor and floor+1. The row lock taken by the upsert serialises
// concurrent invoices of the same day until their transaction ends.
const nextSequenceSQL = `INSERT INTO invoice_sequences (date_key, last_value, updated_at) VALUES (?, ?, ?) ` +
	`ON CONFLICT (date_key) DO UPDATE SET ` +
	`last_value = CASE WHEN invoice_sequences.last_value + 1 > excluded.last_value ` +
	`THEN invoice_sequences.last_value + 1 ELSE excluded.last_value END, ` +
	`updated_at = excluded.updated_at ` +
	`RETURNING last_value`

// InvoiceSequenceModel is one per-day counter row.
type InvoiceSequenceModel struct {
	DateKey   string    `gorm:"type:varchar(8);primaryKey"`
	LastValue int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}

// GormInvoiceSequence implements billing.InvoiceSequence with a counter table.
type GormInvoiceSequence struct {
	db *gorm.DB
}

// NewGormInvoiceSequence creates a new GormInvoiceSequence
func NewGormInvoiceSequence(db *gorm.DB) *GormInvoiceSequence {
	return &GormInvoiceSequence{db: db}
}

// Next returns the next counter value for dateKey, always above floor.
func (s *GormInvoiceSequence) Next(ctx context.Context, dateKey string, floor int) (int, error) {
	if floor < 0 {
		floor = 0
	}
	var value int
	row := s.db.WithContext(ctx).Raw(nextSequenceSQL, dateKey, floor+1, s.db.NowFunc()).Row()
	if err := row.Scan(&value); err != nil {
		return 0, fmt.Errorf("next invoice sequence for %s: %w", dateKey, err)
	}
	if value <= floor {
		return 0, fmt.Errorf("next invoice sequence for %s: got %d, floor %d", dateKey, value, floor)
	}
	return value, nil
}

// Ensure GormInvoiceSequence implements InvoiceSequence
var _ billing.InvoiceSequence = (*GormInvoiceSequence)(nil)
