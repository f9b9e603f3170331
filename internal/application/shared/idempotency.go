package shared

import (
	"context"
	"time"
)

// CachedResponse is the response replayed for a repeated Idempotency-Key
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore remembers the outcome of requests that carried an
// Idempotency-Key, so a client retry does not create a second document.
type IdempotencyStore interface {
	// Reserve claims key for an in-flight request. It returns false when the
	// key is already reserved or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete stores the response of the request holding key.
	Complete(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) error

	// Lookup returns the stored response, or nil while the request is still
	// in flight or the key is unknown.
	Lookup(ctx context.Context, key string) (*CachedResponse, error)

	// Release drops a reservation whose request did not complete.
	Release(ctx context.Context, key string) error

	Close() error
}
