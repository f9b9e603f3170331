package cache

import (
	"context"
	"sync"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoryKeys bounds the in-process idempotency store
const DefaultMemoryKeys = 10_000

// slot is a reserved key; resp stays nil while the request is in flight
type slot struct {
	resp    *appshared.CachedResponse
	expires time.Time
}

func (s slot) live(now time.Time) bool {
	return now.Before(s.expires)
}

// InMemoryIdempotencyStore keeps idempotency keys in a bounded LRU. Expired
// keys are ignored on read and pushed out by newer ones, so no sweeper runs.
// Only safe for a single instance.
type InMemoryIdempotencyStore struct {
	// guards check-then-add in Reserve; the LRU locks each call on its own
	mu    sync.Mutex
	slots *lru.Cache[string, slot]
	now   func() time.Time
}

// NewInMemoryIdempotencyStore creates a store holding DefaultMemoryKeys keys
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return newInMemoryIdempotencyStore(DefaultMemoryKeys)
}

func newInMemoryIdempotencyStore(size int) *InMemoryIdempotencyStore {
	slots, err := lru.New[string, slot](size)
	if err != nil {
		// only a non-positive size fails
		panic(err)
	}
	return &InMemoryIdempotencyStore{slots: slots, now: time.Now}
}

func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if held, ok := s.slots.Peek(key); ok && held.live(now) {
		return false, nil
	}
	s.slots.Add(key, slot{expires: now.Add(ttl)})
	return true, nil
}

func (s *InMemoryIdempotencyStore) Complete(_ context.Context, key string, resp appshared.CachedResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots.Add(key, slot{resp: &resp, expires: s.now().Add(ttl)})
	return nil
}

// Lookup returns a copy of the completed response for key, or nil while the
// key is unknown, in flight or expired.
func (s *InMemoryIdempotencyStore) Lookup(_ context.Context, key string) (*appshared.CachedResponse, error) {
	held, ok := s.slots.Get(key)
	if !ok || held.resp == nil || !held.live(s.now()) {
		return nil, nil
	}
	resp := *held.resp
	return &resp, nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.slots.Remove(key)
	return nil
}

// Close drops every key
func (s *InMemoryIdempotencyStore) Close() error {
	s.slots.Purge()
	return nil
}

// Size counts stored keys, expired ones included until they are evicted
func (s *InMemoryIdempotencyStore) Size() int {
	return s.slots.Len()
}

var _ appshared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
