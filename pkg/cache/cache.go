// Package cache provides byte-level caching for artifact snapshots and
// rendered scenes.
//
// Backends:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON envelopes on disk, for the CLI
//   - [RedisCache]: shared cache for server deployments
//
// Keys are produced by a [Keyer] so that every caller agrees on the layout of
// the key space. [ScopedKeyer] adds a prefix for isolating deployments that
// share one Redis instance.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that treat a miss as an error.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok == false and a nil error; an error means the
// backend itself failed. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
