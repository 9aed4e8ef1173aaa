package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/museummap/pkg/mapview"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, nil)

	view := mapview.New(nil)
	view.Mount()
	sess, err := store.Create(ctx, view)
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == "" || store.Len() != 1 {
		t.Fatalf("Create = %+v, len %d", sess, store.Len())
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil || got.View != view {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if view.Mounted() {
		t.Error("Delete should unmount the view")
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, "unknown"); err != nil {
		t.Errorf("Delete(unknown) = %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, nil)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	view := mapview.New(nil)
	view.Mount()
	sess, _ := store.Create(ctx, view)

	now = now.Add(50 * time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get within TTL: %v", err)
	}

	// The Get above extended the deadline.
	now = now.Add(50 * time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get after extension: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get after TTL = %v, want ErrExpired", err)
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 || view.Mounted() {
		t.Error("Cleanup should drop and unmount expired sessions")
	}
}

func TestMemoryStoreRun(t *testing.T) {
	store := NewMemoryStore(time.Minute, nil)
	view := mapview.New(nil)
	view.Mount()
	_, _ = store.Create(context.Background(), view)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Hour)
		close(done)
	}()
	cancel()
	<-done

	if store.Len() != 0 || view.Mounted() {
		t.Error("Run should unmount every session on shutdown")
	}
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: now}

	tests := []struct {
		at   time.Time
		want bool
	}{
		{now.Add(-time.Second), false},
		{now, false},
		{now.Add(time.Second), true},
	}
	for _, tt := range tests {
		if got := s.IsExpired(tt.at); got != tt.want {
			t.Errorf("IsExpired(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

// Handlers read ExpiresAt from the returned session while other requests
// extend it; run with -race.
func TestMemoryStoreConcurrentGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, nil)
	view := mapview.New(nil)
	view.Mount()
	created, err := store.Create(ctx, view)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				s, err := store.Get(ctx, created.ID)
				if err != nil {
					t.Error(err)
					return
				}
				if s.ExpiresAt.IsZero() || s.View != view {
					t.Error("Get returned an incomplete session")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestMemoryStoreGetReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute, nil)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess, _ := store.Create(ctx, mapview.New(nil))
	first, _ := store.Get(ctx, sess.ID)

	now = now.Add(30 * time.Second)
	second, _ := store.Get(ctx, sess.ID)

	if !first.ExpiresAt.Equal(sess.CreatedAt.Add(time.Minute)) {
		t.Errorf("first snapshot changed to %v", first.ExpiresAt)
	}
	if !second.ExpiresAt.After(first.ExpiresAt) {
		t.Errorf("second Get should extend the deadline: %v", second.ExpiresAt)
	}
}
