package cache

import (
	"context"
	"time"
)

// SummaryCache caches serialized analytics summaries keyed by query.
// A miss is signalled by (nil, nil); errors are reserved for backend
// failures.
type SummaryCache interface {
	// Get returns the cached payload for key, or nil on a miss
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores the payload under key with a TTL
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	// Invalidate removes all cached summaries
	Invalidate(ctx context.Context) error
	// Close releases backend resources
	Close() error
}
