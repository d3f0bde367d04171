package cache

import (
	"context"
	"time"

	gcache "github.com/patrickmn/go-cache"
)

// memoryCache implements Cache in process memory
type memoryCache struct {
	store *gcache.Cache
}

// NewMemoryCache creates a process-local cache; entries set without an
// expiration live for defaultExpiration
func NewMemoryCache(defaultExpiration time.Duration) Cache {
	return &memoryCache{
		store: gcache.New(defaultExpiration, time.Minute),
	}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, nil
	}
	data, _ := v.([]byte)
	return data, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = gcache.DefaultExpiration
	}
	c.store.Set(key, value, expiration)
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.store.Delete(key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.store.Get(key)
	return ok, nil
}

func (c *memoryCache) Close() error {
	c.store.Flush()
	return nil
}

func (c *memoryCache) Health(ctx context.Context) error {
	return nil
}
