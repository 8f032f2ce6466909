package partner

import (
	"net/mail"
	"strings"
	"time"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// Customer is a buyer that invoices may reference.
type Customer struct {
	shared.BaseEntity
	Name    string `gorm:"column:customer_name;type:varchar(200);not null;index"`
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(50)"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// CustomerDetails are the editable fields of a customer.
type CustomerDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// NewCustomer validates and creates a customer.
func NewCustomer(d CustomerDetails, now time.Time) (*Customer, error) {
	c := &Customer{}
	if err := c.Update(d, now); err != nil {
		return nil, err
	}
	c.CreatedAt = now
	return c, nil
}

// Update replaces all editable fields.
func (c *Customer) Update(d CustomerDetails, now time.Time) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("Customer name is required")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Customer name cannot exceed 200 characters")
	}
	email := strings.TrimSpace(d.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewValidationError("Invalid email address")
		}
	}

	c.Name = name
	c.Email = email
	c.Phone = strings.TrimSpace(d.Phone)
	c.Address = strings.TrimSpace(d.Address)
	c.UpdatedAt = now
	return nil
}

var (
	ErrCustomerNotFound = shared.NewNotFoundError("Customer not found")
	ErrCustomerInUse    = shared.NewDomainError(shared.CodeConflict, "Cannot delete customer with invoices")
)
