package cache

import (
	"context"
	"fmt"

	"github.com/hoanghai1803/cfeditorial/internal/storage"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	SQLitePath string
	Redis      RedisOptions
}

// Open connects the configured backend. BackendNone yields a nil Backend
// and no error.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemory(), nil
	case BackendSQLite:
		store, err := storage.Open(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite cache: %w", err)
		}
		return store, nil
	case BackendRedis:
		return NewRedis(ctx, opts.Redis)
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", opts.Backend)
	}
}
