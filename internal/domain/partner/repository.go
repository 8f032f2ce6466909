package partner

import (
	"context"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// CustomerRepository persists customers.
type CustomerRepository interface {
	FindByID(ctx context.Context, id int64) (*Customer, error)
	// List orders by name; search matches name, email or phone.
	List(ctx context.Context, search string, page shared.Page) ([]Customer, int64, error)
	Create(ctx context.Context, customer *Customer) error
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id int64) error
}
