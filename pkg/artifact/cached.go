package artifact

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/museummap/pkg/cache"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

// CachedSource is a cache-aside decorator over a Source. The snapshot is
// stored as JSON under a single key; Add invalidates it.
type CachedSource struct {
	inner  Source
	cache  cache.Cache
	key    string
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedSource wraps inner. A nil cache disables caching.
func NewCachedSource(inner Source, c cache.Cache, key string, ttl time.Duration, logger *log.Logger) *CachedSource {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &CachedSource{inner: inner, cache: c, key: key, ttl: ttl, logger: logger}
}

// List returns the cached snapshot, loading it from the inner source on a
// miss. Cache failures are logged and fall through to the inner source.
func (s *CachedSource) List(ctx context.Context) ([]Record, error) {
	data, ok, err := s.cache.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("artifact cache read failed", "key", s.key, "err", err)
	}
	if ok {
		var records []Record
		if err := json.Unmarshal(data, &records); err == nil {
			s.logger.Debug("artifact snapshot from cache", "key", s.key, "count", len(records))
			return records, nil
		}
		s.logger.Warn("discarding corrupt artifact snapshot", "key", s.key)
	}

	records, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(records); err == nil {
		if err := s.cache.Set(ctx, s.key, data, s.ttl); err != nil {
			s.logger.Warn("artifact cache write failed", "key", s.key, "err", err)
		}
	}
	return records, nil
}

// Add forwards to the inner source when it is a Store and invalidates the
// cached snapshot.
func (s *CachedSource) Add(ctx context.Context, d Draft) (string, error) {
	store, ok := s.inner.(Store)
	if !ok {
		return "", mmerrors.New(mmerrors.ErrCodeUnsupported, "artifact source is read-only")
	}
	id, err := store.Add(ctx, d)
	if err != nil {
		return "", err
	}
	if err := s.Invalidate(ctx); err != nil {
		s.logger.Warn("artifact cache invalidation failed", "key", s.key, "err", err)
	}
	return id, nil
}

// Invalidate drops the cached snapshot.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, s.key)
}

var _ Store = (*CachedSource)(nil)
