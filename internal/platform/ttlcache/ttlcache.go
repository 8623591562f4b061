package ttlcache

import (
	"strings"
	"sync"
	"time"
)

// Cache is a time-to-live cache keyed by normalized query strings. Entries
// are evicted lazily when read after expiry; there is no background sweep
// and no capacity bound. Set always overwrites, last write wins.
type Cache[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry[T]
}

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// New creates a cache with the given TTL on the wall clock.
func New[T any](ttl time.Duration) *Cache[T] {
	return NewWithClock[T](ttl, time.Now)
}

// NewWithClock creates a cache with an injected clock so tests can advance
// time without sleeping.
func NewWithClock[T any](ttl time.Duration, now func() time.Time) *Cache[T] {
	if now == nil {
		now = time.Now
	}
	return &Cache[T]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[T]),
	}
}

// Get returns the stored value for key. An expired entry is deleted and
// reported as a miss. Reads do not extend an entry's lifetime.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, unconditionally replacing any existing entry.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len reports the number of entries currently stored, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// NormalizeKey collapses whitespace runs to single spaces, trims, and
// lower-cases, so queries differing only in spacing or case share an entry.
func NormalizeKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
