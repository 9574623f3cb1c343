package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
)

// Sessions is the registry of live sessions.
type Sessions struct {
	mu     sync.RWMutex
	items  map[string]*Session
	max    int
	deps   SessionDeps
	logger *slog.Logger
}

// NewSessions creates a registry holding at most maxSessions sessions. Zero
// or less means no limit.
func NewSessions(deps SessionDeps, maxSessions int, logger *slog.Logger) *Sessions {
	if deps.Logger == nil {
		deps.Logger = logger
	}
	return &Sessions{
		items:  make(map[string]*Session),
		max:    maxSessions,
		deps:   deps,
		logger: logger,
	}
}

// Create starts a new session and begins loading its catalog.
func (r *Sessions) Create(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	if r.max > 0 && len(r.items) >= r.max {
		r.mu.Unlock()
		return nil, apperrors.ServiceUnavailable("session limit reached")
	}
	id := uuid.NewString()
	s := NewSession(id, r.deps)
	// Start before the session becomes visible to Delete and CloseAll.
	s.Start(ctx)
	r.items[id] = s
	n := len(r.items)
	activeSessions.Inc()
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "session created",
		slog.String("session_id", id),
		slog.Int("active", n),
	)
	return s, nil
}

// Get returns the session with the given id.
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, apperrors.NotFound("session", id)
	}
	return s, nil
}

// Delete closes and forgets a session.
func (r *Sessions) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.items[id]
	if ok {
		delete(r.items, id)
	}
	r.mu.Unlock()

	if !ok {
		return apperrors.NotFound("session", id)
	}
	s.Close()
	activeSessions.Dec()

	r.logger.InfoContext(ctx, "session deleted",
		slog.String("session_id", id),
		slog.Int("active", r.Len()),
	)
	return nil
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// CheckCapacity fails once the registry is full. It is used as a readiness
// check.
func (r *Sessions) CheckCapacity(_ context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.max > 0 && len(r.items) >= r.max {
		return fmt.Errorf("session limit %d reached", r.max)
	}
	return nil
}

// CloseAll closes every session. It is called on shutdown.
func (r *Sessions) CloseAll() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range items {
		s.Close()
		activeSessions.Dec()
	}
}
