package partner

import (
	"errors"
	"testing"
	"time"

	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	c, err := NewCustomer(CustomerDetails{Name: " Acme Ltd ", Email: "buyer@acme.test", Phone: " 555 "}, now)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", c.Name)
	assert.Equal(t, "555", c.Phone)
	assert.Equal(t, now, c.CreatedAt)

	_, err = NewCustomer(CustomerDetails{Name: ""}, now)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = NewCustomer(CustomerDetails{Name: "Bob", Email: "not-an-email"}, now)
	assert.EqualError(t, err, "Invalid email address")
}
