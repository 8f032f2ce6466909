package persistence

import (
	"context"
	"errors"

	"github.com/smartinventory/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// invoiceListColumns names the cashier by full name, or by username when
// the account has none.
const invoiceListColumns = "invoices.*, customers.customer_name AS customer_name, " +
	"COALESCE(NULLIF(users.full_name, ''), users.username) AS user_name"

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts the invoice header and its items. Run it inside a
// transaction scope so both land or neither does.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		if isDuplicateKey(err) {
			return billing.ErrInvoiceNumberTaken
		}
		return err
	}
	return nil
}

// FindByID loads an invoice with its items, customer and cashier names
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id int64) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := r.withNames(r.db.WithContext(ctx)).
		Where("invoices.id = ?", id).
		Take(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Table("invoice_items").
		Select("invoice_items.*, products.name AS product_name, products.code AS product_code").
		Joins("LEFT JOIN products ON products.id = invoice_items.product_id").
		Where("invoice_items.invoice_id = ?", id).
		Order("invoice_items.id ASC").
		Scan(&invoice.Items).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// List returns invoices newest first without items
func (r *GormInvoiceRepository) List(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&billing.Invoice{})
	if filter.From != nil {
		query = query.Where("invoices.invoice_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("invoices.invoice_date <= ?", *filter.To)
	}
	if filter.CustomerID != nil {
		query = query.Where("invoices.customer_id = ?", *filter.CustomerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page.Normalize()
	var invoices []billing.Invoice
	if err := r.withNames(query).
		Order("invoices.invoice_date DESC").
		Order("invoices.id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// LastNumberWithPrefix returns the greatest invoice number with the prefix.
// Numbers of one day share a prefix and a fixed-width suffix up to 999, so
// ordering by length first keeps the comparison numeric past that point.
func (r *GormInvoiceRepository) LastNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("LENGTH(invoice_number) DESC").
		Order("invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

// CountByCustomer counts invoices referencing the customer
func (r *GormInvoiceRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&billing.Invoice{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

func (r *GormInvoiceRepository) withNames(db *gorm.DB) *gorm.DB {
	return db.Table("invoices").
		Select(invoiceListColumns).
		Joins("LEFT JOIN customers ON customers.id = invoices.customer_id").
		Joins("LEFT JOIN users ON users.id = invoices.user_id")
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
