package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/museummap/pkg/mapview"
)

// MemoryStore is an in-process session store.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	logger   *log.Logger
	now      func() time.Time
}

// NewMemoryStore creates a store whose sessions expire after ttl of
// inactivity. A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration, logger *log.Logger) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		logger:   logger,
		now:      time.Now,
	}
}

// TTL returns the idle timeout.
func (s *MemoryStore) TTL() time.Duration { return s.ttl }

func (s *MemoryStore) Create(ctx context.Context, view *mapview.View) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		View:      view,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", "id", sess.ID)
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if sess.IsExpired(now) {
		return nil, ErrExpired
	}
	sess.ExpiresAt = now.Add(s.ttl)
	// Callers read the copy without the lock.
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if ok && sess.View != nil {
		sess.View.Unmount()
		s.logger.Debug("session deleted", "id", sessionID)
	}
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	now := s.now()
	var expired []*Session

	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.IsExpired(now) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		if sess.View != nil {
			sess.View.Unmount()
		}
	}
	if len(expired) > 0 {
		s.logger.Info("expired sessions removed", "count", len(expired))
	}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run calls Cleanup every interval until ctx is done, then unmounts every
// remaining session.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-ticker.C:
			_ = s.Cleanup(ctx)
		}
	}
}

// Close unmounts and removes every session.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range all {
		if sess.View != nil {
			sess.View.Unmount()
		}
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
