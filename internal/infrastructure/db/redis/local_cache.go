package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

// LocalCache implements ports.LocalCache on Redis so session state survives
// restarts and is shared between replicas.
// Key format: local:<scope>:<key>
type LocalCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocalCache wraps client. A ttl of zero keeps entries forever; otherwise
// every write refreshes the expiry.
func NewLocalCache(client *redis.Client, ttl time.Duration) *LocalCache {
	return &LocalCache{client: client, ttl: ttl}
}

func (c *LocalCache) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	v, err := c.client.Get(ctx, c.key(scope, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("local cache get: %w", err)
	}
	return v, true, nil
}

func (c *LocalCache) Set(ctx context.Context, scope, key string, value []byte) error {
	if err := c.client.Set(ctx, c.key(scope, key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("local cache set: %w", err)
	}
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, scope, key string) error {
	if err := c.client.Del(ctx, c.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("local cache delete: %w", err)
	}
	return nil
}

func (c *LocalCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *LocalCache) key(scope, key string) string {
	return fmt.Sprintf("local:%s:%s", scope, key)
}

var _ ports.LocalCache = (*LocalCache)(nil)
