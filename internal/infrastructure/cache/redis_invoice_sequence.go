package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smartinventory/backend/internal/domain/billing"
)

const (
	invoiceSequencePrefix = "invoice_seq:"
	// Counters outlive their day long enough for late retries.
	invoiceSequenceTTL = 48 * time.Hour
)

// nextInvoiceSequence increments the day's counter and lifts it above the
// floor read from the invoices table, so a flushed Redis never reissues a
// number that is already stored.
var nextInvoiceSequence = redis.NewScript(`
local v = redis.call('INCR', KEYS[1])
local floor = tonumber(ARGV[1])
if v <= floor then
	v = floor + 1
	redis.call('SET', KEYS[1], v)
end
redis.call('EXPIRE', KEYS[1], ARGV[2])
return v
`)

// RedisInvoiceSequence implements billing.InvoiceSequence with one INCR
// counter per UTC day. Values are not rolled back with the database
// transaction, so a failed invoice leaves a gap.
type RedisInvoiceSequence struct {
	client redis.UniversalClient
}

// NewRedisInvoiceSequence creates a new RedisInvoiceSequence
func NewRedisInvoiceSequence(client redis.UniversalClient) *RedisInvoiceSequence {
	return &RedisInvoiceSequence{client: client}
}

// Next returns the next counter value for dateKey, always above floor.
func (s *RedisInvoiceSequence) Next(ctx context.Context, dateKey string, floor int) (int, error) {
	if floor < 0 {
		floor = 0
	}
	ttl := int(invoiceSequenceTTL / time.Second)
	value, err := nextInvoiceSequence.Run(ctx, s.client, []string{invoiceSequencePrefix + dateKey}, floor, ttl).Int()
	if err != nil {
		return 0, fmt.Errorf("next invoice sequence for %s: %w", dateKey, err)
	}
	return value, nil
}

// Ensure RedisInvoiceSequence implements InvoiceSequence
var _ billing.InvoiceSequence = (*RedisInvoiceSequence)(nil)
