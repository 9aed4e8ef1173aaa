package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("MUSEUMMAP_REDIS_ADDR")
	if addr == "" {
		t.Skip("MUSEUMMAP_REDIS_ADDR not set")
	}
	ctx := context.Background()
	prefix := "museummap-test:" + uuid.NewString() + ":"

	c, err := NewRedisCache(ctx, RedisConfig{Addr: addr, Prefix: prefix})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "scene"); err != nil || ok {
		t.Fatalf("Get before Set = %v, %v", ok, err)
	}
	if err := c.Set(ctx, "scene", []byte("<svg/>"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, ok, err := c.Get(ctx, "scene")
	if err != nil || !ok || string(data) != "<svg/>" {
		t.Fatalf("Get = %q, %v, %v", data, ok, err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "scene"); ok {
		t.Error("Clear should remove prefixed keys")
	}
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("connecting to a closed port should fail")
	}
}
