package server

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"turtle/history"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// entry is one hosted session. The session serializes its own operations.
type entry struct {
	id      string
	session *history.Session
	hub     *hub
	created time.Time
}

// registry owns the hosted sessions.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	max      int
}

func newRegistry(max int) *registry {
	return &registry{sessions: make(map[string]*entry), max: max}
}

// add stores a session built by create under a fresh id.
func (r *registry) add(create func(h *hub) *history.Session) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sessions) >= r.max {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManySessions, r.max)
	}
	h := newHub()
	e := &entry{
		id:      uuid.NewString(),
		session: create(h),
		hub:     h,
		created: time.Now(),
	}
	r.sessions[e.id] = e
	return e, nil
}

func (r *registry) get(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return e, nil
}

func (r *registry) remove(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	e.hub.close()
	return nil
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
