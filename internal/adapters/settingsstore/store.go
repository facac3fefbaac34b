// Package settingsstore provides the persistent key/value backends behind
// the dashboard settings.
package settingsstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/healthui/internal/domain/settings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Store is the contract every backend satisfies.
type Store = settings.Store

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*RedisStore)(nil)
)

// Open builds the backend selected by WithBackend. It defaults to memory.
func Open(ctx context.Context, opts ...Option) (Store, error) {
	o := newOptions(opts...)

	switch strings.ToLower(strings.TrimSpace(o.backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		if o.path == "" {
			return nil, fmt.Errorf("%w: file backend needs a path", ErrInvalidOptions)
		}
		return NewFileStore(o.path)
	case BackendSQLite:
		if o.path == "" {
			return nil, fmt.Errorf("%w: sqlite backend needs a path", ErrInvalidOptions)
		}
		return NewSQLiteStore(ctx, o.path)
	case BackendRedis:
		return NewRedisStore(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, o.backend)
	}
}
