// Package cache stores external lookup results so repeated runs on the same
// day do not spend API quota twice.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from cache; a missing key returns nil, nil
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// Close closes the cache connection
	Close() error

	// Health checks cache health
	Health(ctx context.Context) error
}

// CacheError represents a cache operation error
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func (e *CacheError) Error() string {
	return "cache " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// KeyPrefix namespaces every key this module writes
const KeyPrefix = "hot100"

// Key joins parts into a namespaced cache key. Parts are trimmed, not
// case-folded: platform IDs are case-sensitive.
func Key(parts ...string) string {
	normalized := make([]string, 0, len(parts)+1)
	normalized = append(normalized, KeyPrefix)
	for _, p := range parts {
		normalized = append(normalized, strings.TrimSpace(p))
	}
	return strings.Join(normalized, ":")
}

// New returns a multi-level cache over Valkey when valkeyURL is set,
// otherwise a process-local memory cache
func New(valkeyURL string) (Cache, error) {
	if valkeyURL == "" {
		return NewMemoryCache(time.Hour), nil
	}
	l2, err := NewValkeyCache(valkeyURL)
	if err != nil {
		return nil, err
	}
	return NewMultiLevelCache(l2, time.Hour), nil
}

// GetJSON decodes a cached JSON value into dst. found is false on a miss.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (found bool, err error) {
	data, err := c.Get(ctx, key)
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, &CacheError{Operation: "decode", Key: key, Err: err}
	}
	return true, nil
}

// SetJSON stores v as JSON
func SetJSON(ctx context.Context, c Cache, key string, v any, expiration time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &CacheError{Operation: "encode", Key: key, Err: err}
	}
	return c.Set(ctx, key, data, expiration)
}
