package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	valkeyClientName  = "hot100"
	valkeyDialTimeout = 5 * time.Second
)

// valkeyCache is the shared L2 behind the in-process cache
type valkeyCache struct {
	client valkey.Client
}

// NewValkeyCache connects to valkeyURL and pings it once
func NewValkeyCache(valkeyURL string) (Cache, error) {
	opt, err := clientOption(valkeyURL)
	if err != nil {
		return nil, err
	}

	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}
	c := &valkeyCache{client: client}

	ctx, cancel := context.WithTimeout(context.Background(), valkeyDialTimeout)
	defer cancel()
	if err := c.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}
	return c, nil
}

// clientOption accepts valkey://, valkeys://, redis:// and rediss:// URLs.
// The database number may be given as the path.
func clientOption(valkeyURL string) (valkey.ClientOption, error) {
	opt, err := valkey.ParseURL(valkeyURL)
	if err != nil {
		return opt, fmt.Errorf("failed to parse Valkey URL: %w", err)
	}
	if opt.DialFn != nil {
		return opt, fmt.Errorf("failed to parse Valkey URL: unix sockets are not supported")
	}
	if opt.ClientName == "" {
		opt.ClientName = valkeyClientName
	}
	if opt.Dialer.Timeout == 0 {
		opt.Dialer.Timeout = valkeyDialTimeout
	}
	return opt, nil
}

func (c *valkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &CacheError{Operation: "get", Key: key, Err: err}
	}
	return data, nil
}

// Set stores value; a non-positive expiration keeps it until evicted
func (c *valkeyCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	set := c.client.B().Set().Key(key).Value(valkey.BinaryString(value))
	var cmd valkey.Completed
	if expiration > 0 {
		cmd = set.Ex(expiration).Build()
	} else {
		cmd = set.Build()
	}

	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return &CacheError{Operation: "set", Key: key, Err: err}
	}
	return nil
}

func (c *valkeyCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Do(ctx, c.client.B().Del().Key(key).Build()).Error(); err != nil {
		return &CacheError{Operation: "delete", Key: key, Err: err}
	}
	return nil
}

func (c *valkeyCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Do(ctx, c.client.B().Exists().Key(key).Build()).AsInt64()
	if err != nil {
		return false, &CacheError{Operation: "exists", Key: key, Err: err}
	}
	return n > 0, nil
}

func (c *valkeyCache) Close() error {
	c.client.Close()
	return nil
}

// Health pings the server
func (c *valkeyCache) Health(ctx context.Context) error {
	if err := c.client.Do(ctx, c.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("valkey ping failed: %w", err)
	}
	return nil
}
