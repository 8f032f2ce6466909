package billing

import (
	"strings"

	"github.com/smartinventory/backend/internal/domain/shared"
)

// PaymentMethod is how an invoice was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodCard         PaymentMethod = "Card"
	PaymentMethodBankTransfer PaymentMethod = "BankTransfer"
	PaymentMethodOther        PaymentMethod = "Other"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentStatus is the settlement state of an invoice
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPartial PaymentStatus = "Partial"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial:
		return true
	}
	return false
}

var (
	ErrInvalidPaymentMethod = shared.NewValidationError("Invalid payment method")
	ErrInvalidPaymentStatus = shared.NewValidationError("Invalid payment status")
)

// ParsePaymentMethod accepts the exact enum names; there is no fallback.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.TrimSpace(s))
	if !m.IsValid() {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}

// ParsePaymentStatus accepts the exact enum names; there is no fallback.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(strings.TrimSpace(s))
	if !st.IsValid() {
		return "", ErrInvalidPaymentStatus
	}
	return st, nil
}
