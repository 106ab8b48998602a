package ports

import "context"

// LocalCache is the per-session persistent key-value store used as the
// startup and offline fallback for cart and favorites. Scope is the session
// id; each key within a scope is owned by exactly one component.
type LocalCache interface {
	// Get returns ok=false when the key was never written.
	Get(ctx context.Context, scope, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
}
