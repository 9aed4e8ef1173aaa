package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

// FileStore reads and writes a JSON file holding an array of raw documents.
// Each document carries its id in an "id" field.
//
// A missing file is an empty collection; the file is created on first Add.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = discardLogger()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// List reads and ingests the file. Invalid documents are logged and skipped.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	docs, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	records, skipped := Ingest(docs)
	logSkipped(s.logger, s.path, skipped)
	s.logger.Debug("loaded artifacts", "source", s.path, "count", len(records), "skipped", len(skipped))
	return records, nil
}

// Add appends the draft as a new document and rewrites the file.
func (s *FileStore) Add(ctx context.Context, d Draft) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := d.Record(id); err != nil {
		return "", err
	}
	doc := d.Document()
	doc["id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.read()
	if err != nil {
		return "", err
	}
	docs = append(docs, doc)
	if err := s.write(docs); err != nil {
		return "", err
	}
	return id, nil
}

// Import appends raw documents, assigning ids to documents without one.
// It returns the number of documents written.
func (s *FileStore) Import(ctx context.Context, incoming []Document) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs, err := s.read()
	if err != nil {
		return 0, err
	}
	for _, doc := range incoming {
		if stringField(doc, "id", "_id") == "" {
			doc["id"] = uuid.NewString()
		}
		docs = append(docs, doc)
	}
	if err := s.write(docs); err != nil {
		return 0, err
	}
	return len(incoming), nil
}

func (s *FileStore) read() ([]Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read artifacts: %w", err)
	}
	return DecodeDocuments(data)
}

func (s *FileStore) write(docs []Document) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifacts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// DecodeDocuments parses a JSON array of documents, or an object with an
// "artifacts" array.
func DecodeDocuments(data []byte) ([]Document, error) {
	var docs []Document
	if err := json.Unmarshal(data, &docs); err == nil {
		return docs, nil
	}
	var wrapped struct {
		Artifacts []Document `json:"artifacts"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeInvalidFormat, err, "artifact file is not a JSON array of documents")
	}
	return wrapped.Artifacts, nil
}

var (
	_ Store    = (*FileStore)(nil)
	_ Importer = (*FileStore)(nil)
)
