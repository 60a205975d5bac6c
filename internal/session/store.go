// Package session holds the in-memory store of interaction sessions. One
// session exists per user interaction context; it is created with empty
// defaults, mutated only by completed actions, and discarded when the user
// (or the process) goes away. Nothing is persisted.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/transformai/transformai/internal/models"
)

// ErrNotFound is returned when a session ID is unknown (never created, or
// already discarded).
var ErrNotFound = fmt.Errorf("session not found")

// Store maps session IDs to session values. Actions within one session are
// serial, but distinct sessions are served concurrently, so access to the map
// is guarded. Get and Put copy the value both ways: callers can never mutate
// stored state except through Put, which keeps the fail-leaves-state-intact
// rule enforceable at the action layer.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.Session
}

func New() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]models.Session),
	}
}

// Create makes a fresh session with empty defaults and stores it.
func (s *Store) Create() models.Session {
	sess := models.NewSession()

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns a copy of the session with the given ID.
func (s *Store) Get(id uuid.UUID) (models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return models.Session{}, ErrNotFound
	}
	return sess, nil
}

// Put replaces the stored session with the given value, stamping UpdatedAt.
// Only successful actions call Put; a failed action simply never does.
func (s *Store) Put(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; !ok {
		return ErrNotFound
	}

	sess.UpdatedAt = time.Now().UTC()
	s.sessions[sess.ID] = sess
	return nil
}

// Delete discards a session. Deleting an unknown ID is not an error; the
// outcome the caller asked for already holds.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
