package session

import (
	"sync"
	"time"

	"github.com/dmitrymomot/wirehttp/pkg/attr"
	"github.com/dmitrymomot/wirehttp/pkg/token"
)

// Session is server-side state bound to one cookie.
type Session struct {
	id        token.Token
	csrf      token.Token
	createdAt time.Time

	mu    sync.Mutex
	attrs attr.Map
}

func newSession(id, csrf token.Token, createdAt time.Time) *Session {
	return &Session{
		id:        id,
		csrf:      csrf,
		createdAt: createdAt,
		attrs:     attr.Map{},
	}
}

// ID returns the session identifier carried in the cookie.
func (s *Session) ID() token.Token { return s.id }

// CSRFToken returns the token expected in the CSRF header.
func (s *Session) CSRFToken() token.Token { return s.csrf }

// CreatedAt returns the creation timestamp.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Len returns the number of attributes.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attrs)
}

// Value returns the attribute stored under key, storing supplier() first if
// it is absent. The supplier runs at most once per key and must not access
// the same session.
func Value[T any](s *Session, key attr.Key[T], supplier func() T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return attr.GetOrInit(s.attrs, key, supplier)
}

// Lookup returns the attribute stored under key.
func Lookup[T any](s *Session, key attr.Key[T]) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return attr.Lookup(s.attrs, key)
}

// Set stores v under key.
func Set[T any](s *Session, key attr.Key[T], v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attr.Set(s.attrs, key, v)
}

// Delete removes the attribute stored under key.
func Delete[T any](s *Session, key attr.Key[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attr.Delete(s.attrs, key)
}
