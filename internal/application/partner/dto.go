package partner

import (
	"time"

	"github.com/smartinventory/backend/internal/domain/partner"
)

// CustomerRequest creates or replaces a customer
type CustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CustomerListFilter selects customers
type CustomerListFilter struct {
	Search   string
	Page     int
	PageSize int
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"customer_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a customer to its response DTO
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r CustomerRequest) details() partner.CustomerDetails {
	return partner.CustomerDetails{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}
