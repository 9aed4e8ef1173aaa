// Package session keeps the map views mounted by HTTP clients.
//
// A browser page owns its view for as long as it is open. Over HTTP there is
// no unmount event when a tab is closed, so every session carries a TTL that
// is extended on each use; expired sessions are unmounted and dropped by
// [MemoryStore.Cleanup], which [MemoryStore.Run] calls periodically.
//
// Sessions live in process memory only. Viewport and selection state are
// never persisted.
//
// # Usage
//
//	store := session.NewMemoryStore(session.DefaultTTL, logger)
//	go store.Run(ctx, time.Minute)
//
//	view := mapview.New(b)
//	view.Mount()
//	sess, err := store.Create(ctx, view)
//
//	sess, err = store.Get(ctx, id) // extends the TTL
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"time"


	"github.com/matzehuels/museummap/pkg/mapview"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 30 * time.Minute

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// Session is one mounted view.
type Session struct {
	ID        string        `json:"id"`
	View      *mapview.View `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// IsExpired reports whether the session timed out at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Create stores a new session for view.
	Create(ctx context.Context, view *mapview.View) (*Session, error)

	// Get retrieves a session by ID and extends its TTL. The returned
	// Session is a snapshot owned by the caller; its View is shared.
	// Returns ErrNotFound for unknown ids and ErrExpired for sessions
	// that timed out but were not cleaned up yet.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Delete unmounts and removes a session. Unknown ids are not an error.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup unmounts and removes expired sessions.
	Cleanup(ctx context.Context) error

	// Len returns the number of stored sessions.
	Len() int
}
