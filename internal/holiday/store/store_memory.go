package store

import (
	"context"
	"fmt"
	"sync"

	"feriadobot/internal/holiday/models"
)

// InMemoryCache keeps the encoded cache document in memory. It goes through the
// same encoder and decoder as the durable backends, so validity behaves the same.
type InMemoryCache struct {
	mu       sync.RWMutex
	document []byte
	writes   int
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{}
}

// NewInMemoryCacheFromDocument seeds the cache with a raw JSON document, in
// either storage shape.
func NewInMemoryCacheFromDocument(document []byte) *InMemoryCache {
	return &InMemoryCache{document: append([]byte(nil), document...)}
}

// Backend names the storage kind for logs and metrics.
func (c *InMemoryCache) Backend() string { return "memory" }

// IsValid reports whether the stored document holds a non-empty list for year.
func (c *InMemoryCache) IsValid(ctx context.Context, year int) bool {
	ok, _ := checkValid(ctx, c.read, year)
	return ok
}

// Load decodes the stored document.
func (c *InMemoryCache) Load(ctx context.Context) ([]models.Record, error) {
	return load(ctx, c.read)
}

// Save replaces the stored document.
func (c *InMemoryCache) Save(_ context.Context, records []models.Record) error {
	data, err := encodeDocument(records)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.document = data
	c.writes++
	return nil
}

// Document returns a copy of the stored document.
func (c *InMemoryCache) Document() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]byte(nil), c.document...)
}

// Writes returns how many times Save succeeded.
func (c *InMemoryCache) Writes() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.writes
}

func (c *InMemoryCache) read(_ context.Context) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.document == nil {
		return nil, fmt.Errorf("%w: nothing stored", ErrInvalidCache)
	}
	return append([]byte(nil), c.document...), nil
}
