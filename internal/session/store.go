// Package session manages browser sessions: the in-memory store, the signed
// cookie token that references a store entry, and request-context plumbing.
package session

import (
	"sync"
	"time"

	"github.com/carbonchain/portal-api/internal/state"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// entry wraps a session with its idle-expiry bookkeeping
type entry struct {
	sess     *state.Session
	lastSeen time.Time
}

// Store is the in-memory session registry. Sessions expire after ttl of
// inactivity; Sweep removes expired entries.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	logger  *zap.Logger
}

// NewStore creates a session store with the given idle TTL
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		logger:  logger,
	}
}

// Create registers a new session and returns it
func (s *Store) Create() *state.Session {
	sess := state.NewSession(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID()] = &entry{
		sess:     sess,
		lastSeen: time.Now(),
	}
	return sess
}

// Get returns the session for id and refreshes its idle timer. Expired or
// unknown sessions return nil.
func (s *Store) Get(id string) *state.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	if time.Since(e.lastSeen) > s.ttl {
		delete(s.entries, id)
		return nil
	}
	e.lastSeen = time.Now()
	return e.sess
}

// Delete removes a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of live entries, expired or not
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes all expired sessions and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := time.Now()
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.entries, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("Swept expired sessions",
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.entries)),
		)
	}
	return removed
}
