package cache

import (
	"context"
	"time"
)

// NullCache disables caching: every Get misses and writes are dropped. It
// backs --no-cache and the "none" backend, and packages that take an
// optional cache fall back to it.
type NullCache struct{}

func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
