package shared

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a processed event id is remembered
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers processed event ids, shared across instances
// when backed by Redis
type IdempotencyStore interface {
	// MarkProcessed records eventID and reports whether it was unseen
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
}
