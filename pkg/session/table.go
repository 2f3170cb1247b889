package session

import (
	"sync"
	"time"

	"github.com/dmitrymomot/wirehttp/pkg/token"
)

// Table holds live sessions by identifier. Implementations must be safe for
// concurrent use.
type Table interface {
	// Get returns the session with the given identifier.
	Get(id token.Token) (*Session, bool)

	// Put stores a session under its identifier.
	Put(s *Session)

	// Delete removes a session.
	Delete(id token.Token)

	// Len returns the number of stored sessions.
	Len() int
}

// MemoryTable is an unbounded in-memory Table.
type MemoryTable struct {
	mu       sync.RWMutex
	sessions map[token.Token]*Session
}

// NewMemoryTable creates an empty table.
func NewMemoryTable() *MemoryTable {
	return &MemoryTable{sessions: make(map[token.Token]*Session)}
}

// Get returns the session with the given identifier.
func (t *MemoryTable) Get(id token.Token) (*Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[id]
	return s, ok
}

// Put stores a session under its identifier.
func (t *MemoryTable) Put(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[s.id] = s
}

// Delete removes a session.
func (t *MemoryTable) Delete(id token.Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, id)
}

// Len returns the number of stored sessions.
func (t *MemoryTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// Prune removes sessions created before the cutoff and returns how many
// were removed.
func (t *MemoryTable) Prune(before time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for id, s := range t.sessions {
		if s.createdAt.Before(before) {
			delete(t.sessions, id)
			n++
		}
	}
	return n
}
