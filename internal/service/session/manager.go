// Package session keeps per-conversation contexts in memory for the
// lifetime of a conversation. Contexts are serialized per session: at most
// one concierge turn mutates a given session at a time.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	model "github.com/edallison777/vitracka-sub001/internal/model/session"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionOwnership = errors.New("session belongs to another user")
)

// entry pairs a context with its turn-serialization lock.
type entry struct {
	mu  sync.Mutex
	ctx *model.Context
}

// Manager owns the in-memory session table.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewManager creates a manager with the given inactivity timeout.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Acquire loads or initializes the context for sessionID, locks it for the
// duration of one turn, and returns the working copy plus a release
// function. When sessionID is empty a new session is provisioned. A
// caller-supplied seed context is adopted only when the session is not
// already resident. A resident session owned by a different user is
// refused: presenting someone else's sessionID must not expose their
// history or profile snapshot.
func (m *Manager) Acquire(sessionID, userID string, seed *model.Context) (*model.Context, func(), error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	m.mu.Lock()
	e, ok := m.entries[sessionID]
	if !ok {
		ctx := seed.Clone()
		if ctx == nil {
			ctx = &model.Context{}
		}
		ctx.SessionID = sessionID
		ctx.UserID = userID
		e = &entry{ctx: ctx}
		m.entries[sessionID] = e
	}
	m.mu.Unlock()

	// UserID is write-once at insertion, safe to read without the turn lock.
	if e.ctx.UserID != userID {
		return nil, nil, ErrSessionOwnership
	}

	e.mu.Lock()
	return e.ctx, e.mu.Unlock, nil
}

// Peek returns a copy of the context without locking the turn.
func (m *Manager) Peek(sessionID string) (*model.Context, error) {
	m.mu.RLock()
	e, ok := m.entries[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.Clone(), nil
}

// Delete destroys a session, e.g. when the user deletes their account.
func (m *Manager) Delete(sessionID string) {
	m.mu.Lock()
	delete(m.entries, sessionID)
	m.mu.Unlock()
}

// ExpireIdle drops sessions whose last interaction predates the TTL and
// returns how many were removed.
func (m *Manager) ExpireIdle() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.entries {
		if !e.ctx.LastInteractionTime.IsZero() && e.ctx.LastInteractionTime.Before(cutoff) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of resident sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
