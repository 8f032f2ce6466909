package catalog

import (
	"fmt"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// InsufficientStockError reports a rejected decrement with enough context
// to show to the cashier.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product '%s'. Available: %d, Requested: %d",
		e.ProductName, e.Available, e.Requested)
}

// Unwrap exposes the error as an INSUFFICIENT_STOCK DomainError.
func (e *InsufficientStockError) Unwrap() error {
	return shared.NewDomainError(shared.CodeInsufficientStock, e.Error())
}

// NewProductNotFoundError names the missing product id.
func NewProductNotFoundError(id int64) *shared.DomainError {
	return shared.NewNotFoundError(fmt.Sprintf("Product with ID %d not found", id))
}

var ErrProductCodeExists = shared.NewDomainError(shared.CodeAlreadyExists, "Product code already exists")

var ErrProductModified = shared.NewDomainError(shared.CodeConflict, "Product stock changed while editing, reload and try again")
