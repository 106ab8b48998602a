package memory

import (
	"context"
	"sync"

	"github.com/diecastgarage/storefront/internal/core/ports"
)

// LocalCache is an in-memory ports.LocalCache. Like the network-backed
// caches it refuses work on a done context.
type LocalCache struct {
	mu     sync.Mutex
	scopes map[string]map[string][]byte
}

func NewLocalCache() *LocalCache {
	return &LocalCache{scopes: make(map[string]map[string][]byte)}
}

func (c *LocalCache) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.scopes[scope][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (c *LocalCache) Set(ctx context.Context, scope, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.scopes[scope]
	if !ok {
		m = make(map[string][]byte)
		c.scopes[scope] = m
	}
	m[key] = append([]byte(nil), value...)
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, scope, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scopes[scope], key)
	return nil
}

func (c *LocalCache) Ping(context.Context) error { return nil }

var _ ports.LocalCache = (*LocalCache)(nil)
