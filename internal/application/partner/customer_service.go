package partner

import (
	"context"

	"github.com/smartinventory/backend/internal/domain/partner"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// InvoiceCounter reports how many invoices reference a customer.
type InvoiceCounter interface {
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
}

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	invoices     InvoiceCounter
	clock        shared.Clock
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, invoices InvoiceCounter, clock shared.Clock) *CustomerService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &CustomerService{
		customerRepo: customerRepo,
		invoices:     invoices,
		clock:        clock,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.details(), s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("customer created", zap.Int64("customer_id", customer.ID))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns customers by name
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (shared.Paginated[CustomerResponse], error) {
	page := shared.Page{Number: filter.Page, Size: filter.PageSize}
	customers, total, err := s.customerRepo.List(ctx, filter.Search, page)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return shared.NewPaginated(out, total, page), nil
}

// Update replaces a customer's details
func (s *CustomerService) Update(ctx context.Context, id int64, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.details(), s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer no invoice references
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if _, err := s.customerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.invoices.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return partner.ErrCustomerInUse
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L(ctx).Info("customer deleted", zap.Int64("customer_id", id))
	return nil
}
