package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/museummap/pkg/observability"
)

// Instrumented reports hits, misses and writes of the wrapped cache to the
// registered observability hooks. The key type is the key's first
// colon-separated segment ("snapshot", "scene", "describe").
func Instrumented(c Cache) Cache {
	if c == nil {
		return NewNullCache()
	}
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func (c *instrumented) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

func keyType(key string) string {
	for _, part := range strings.Split(key, ":") {
		switch part {
		case "snapshot", "scene", "describe":
			return part
		}
	}
	return "other"
}
