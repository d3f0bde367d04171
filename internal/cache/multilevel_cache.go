package cache

import (
	"context"
	"time"

	gcache "github.com/patrickmn/go-cache"
)

// MultiLevelCache reads through an in-memory L1 to a shared L2
type MultiLevelCache struct {
	l1    *gcache.Cache
	l2    Cache
	l1TTL time.Duration
}

// NewMultiLevelCache wraps l2 with an in-memory L1 whose entries live at most l1TTL
func NewMultiLevelCache(l2 Cache, l1TTL time.Duration) *MultiLevelCache {
	return &MultiLevelCache{
		l1:    gcache.New(l1TTL, time.Minute),
		l2:    l2,
		l1TTL: l1TTL,
	}
}

// Get retrieves from L1 first, then L2
func (c *MultiLevelCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := c.l1.Get(key); ok {
		if data, ok := v.([]byte); ok {
			return data, nil
		}
	}

	data, err := c.l2.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if data != nil {
		c.l1.Set(key, data, c.l1TTL)
	}
	return data, nil
}

// Set stores in L2, then L1 with the shorter of the two expirations
func (c *MultiLevelCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := c.l2.Set(ctx, key, value, expiration); err != nil {
		return err
	}

	l1Expiration := c.l1TTL
	if expiration > 0 && expiration < l1Expiration {
		l1Expiration = expiration
	}
	c.l1.Set(key, value, l1Expiration)
	return nil
}

// Delete removes from both levels
func (c *MultiLevelCache) Delete(ctx context.Context, key string) error {
	c.l1.Delete(key)
	return c.l2.Delete(ctx, key)
}

// Exists checks both levels
func (c *MultiLevelCache) Exists(ctx context.Context, key string) (bool, error) {
	if _, ok := c.l1.Get(key); ok {
		return true, nil
	}
	return c.l2.Exists(ctx, key)
}

// Close closes L2 connection
func (c *MultiLevelCache) Close() error {
	c.l1.Flush()
	return c.l2.Close()
}

// Health checks L2 health
func (c *MultiLevelCache) Health(ctx context.Context) error {
	return c.l2.Health(ctx)
}
