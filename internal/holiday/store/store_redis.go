package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"feriadobot/internal/holiday/models"
)

// DefaultRedisKey is the key the holiday document is stored under.
const DefaultRedisKey = "feriadobot:holidays"

// RedisCache stores the holiday document in a single Redis key without TTL;
// staleness is detected from the document's year, as with the file backend.
type RedisCache struct {
	client redis.Cmdable
	key    string
}

// NewRedisCache constructs a Redis-backed holiday cache. An empty key selects DefaultRedisKey.
func NewRedisCache(client redis.Cmdable, key string) *RedisCache {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisCache{client: client, key: key}
}

// Backend names the storage kind for logs and metrics.
func (c *RedisCache) Backend() string { return "redis" }

// IsValid reports whether the stored document holds a non-empty list for year.
// Redis errors read as false.
func (c *RedisCache) IsValid(ctx context.Context, year int) bool {
	ok, _ := checkValid(ctx, c.read, year)
	return ok
}

// Load decodes the stored document.
//
// Side effects: performs a Redis GET.
//
// Errors: ErrInvalidCache (wrapped) on a missing key, a Redis failure or a malformed document.
func (c *RedisCache) Load(ctx context.Context) ([]models.Record, error) {
	return load(ctx, c.read)
}

// Save overwrites the stored document.
//
// Side effects: performs a Redis SET with no expiration.
func (c *RedisCache) Save(ctx context.Context, records []models.Record) error {
	payload, err := encodeDocument(records)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("save holiday cache: %w", err)
	}
	return nil
}

func (c *RedisCache) read(ctx context.Context) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: key %s not set", ErrInvalidCache, c.key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrInvalidCache, c.key, err)
	}
	return data, nil
}
