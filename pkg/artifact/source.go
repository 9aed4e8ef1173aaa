package artifact

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Source loads the artifact collection. The map reads one snapshot per
// mounted view and never writes through a Source.
type Source interface {
	List(ctx context.Context) ([]Record, error)
}

// Store is a Source that also accepts new artifacts from the enrichment flow.
type Store interface {
	Source

	// Add stores the draft and returns the new document id.
	Add(ctx context.Context, d Draft) (string, error)
}

// Importer bulk-loads raw documents. It returns the number written.
type Importer interface {
	Import(ctx context.Context, docs []Document) (int, error)
}

// discardLogger is used when a source is created without a logger.
func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// logSkipped reports documents that failed ingestion.
func logSkipped(logger *log.Logger, source string, skipped []error) {
	for _, err := range skipped {
		logger.Warn("skipped artifact document", "source", source, "err", err)
	}
}

// MemoryStore keeps artifacts in memory, in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore returns a store holding a copy of records.
func NewMemoryStore(records ...Record) *MemoryStore {
	return &MemoryStore{records: append([]Record(nil), records...)}
}

// List returns a copy of the stored records.
func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...), nil
}

// Add stores a draft under a fresh UUID.
func (s *MemoryStore) Add(ctx context.Context, d Draft) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	r, err := d.Record(id)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.records = append(s.records, r)
	s.mu.Unlock()
	return id, nil
}

var _ Store = (*MemoryStore)(nil)
