package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvoiceNumberPrefix starts every invoice number: INV-YYYYMMDD-NNN.
const InvoiceNumberPrefix = "INV"

// DateKey is the UTC calendar day an invoice number belongs to.
func DateKey(t time.Time) string {
	return t.UTC().Format("20060102")
}

// DayPrefix is the shared leading part of all numbers issued on t's UTC day,
// including the trailing dash.
func DayPrefix(t time.Time) string {
	return InvoiceNumberPrefix + "-" + DateKey(t) + "-"
}

// FormatInvoiceNumber renders the seq-th number of t's UTC day. The suffix is
// zero padded to three digits and widens past 999.
func FormatInvoiceNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", DayPrefix(t), seq)
}

// ParseInvoiceSequence extracts the numeric suffix of an invoice number.
func ParseInvoiceSequence(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || !strings.HasPrefix(number, InvoiceNumberPrefix+"-") {
		return 0, fmt.Errorf("malformed invoice number %q", number)
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil || seq <= 0 {
		return 0, fmt.Errorf("malformed invoice number %q", number)
	}
	return seq, nil
}

// NextInvoiceNumber returns the number following last, the greatest number
// already issued today (empty when none).
func NextInvoiceNumber(now time.Time, last string) (string, error) {
	if last == "" {
		return FormatInvoiceNumber(now, 1), nil
	}
	seq, err := ParseInvoiceSequence(last)
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(now, seq+1), nil
}
