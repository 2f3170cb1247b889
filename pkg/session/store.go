package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/wirehttp/pkg/attr"
	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/logger"
	"github.com/dmitrymomot/wirehttp/pkg/token"
)

const (
	DefaultCookieName = "sid"
	DefaultCSRFHeader = "X-CSRF-Token"
)

// Store binds sessions to exchanges through one cookie.
type Store struct {
	cookieName string
	csrfHeader exchange.HeaderName
	ids        *token.Generator
	csrf       *token.Generator
	table      Table
	clock      func() time.Time
	logger     *slog.Logger
}

// exchangeState is the per-exchange session binding.
type exchangeState struct {
	sess   *Session
	loaded bool // bound from the request cookie
	issued bool // Set-Cookie already staged
}

var stateKey = attr.NewKey[*exchangeState]("session.state")

// New creates a store. It fails when the cookie or CSRF header name is
// invalid.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		cookieName: DefaultCookieName,
		csrfHeader: DefaultCSRFHeader,
		clock:      time.Now,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := validateCookieName(s.cookieName); err != nil {
		return nil, err
	}
	if !exchange.IsToken(string(s.csrfHeader)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHeaderName, s.csrfHeader)
	}
	s.csrfHeader = exchange.CanonicalHeaderName(string(s.csrfHeader))

	// Independent generators keep session ids and CSRF tokens uncorrelated.
	if s.ids == nil {
		s.ids = token.NewGenerator(token.CryptoSource())
	}
	if s.csrf == nil {
		s.csrf = token.NewGenerator(token.CryptoSource())
	}
	if s.table == nil {
		s.table = NewMemoryTable()
	}
	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Store {
	s, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// CookieName returns the configured cookie name.
func (s *Store) CookieName() string { return s.cookieName }

// CSRFHeader returns the configured CSRF header name.
func (s *Store) CSRFHeader() exchange.HeaderName { return s.csrfHeader }

// Table returns the session table.
func (s *Store) Table() Table { return s.table }

func (s *Store) state(ex *exchange.Exchange) *exchangeState {
	return exchange.AttrOrInit(ex, stateKey, func() *exchangeState { return &exchangeState{} })
}

// Current returns the session bound to the exchange, if any.
func (s *Store) Current(ex *exchange.Exchange) (*Session, bool) {
	st, ok := exchange.Attr(ex, stateKey)
	if !ok || st.sess == nil {
		return nil, false
	}
	return st.sess, true
}

// Load binds the session named by the request cookie. The first cookie with
// the configured name decides; a malformed, wrong-length or unknown value
// means no session. It reports whether a session is bound afterwards.
func (s *Store) Load(ex *exchange.Exchange) bool {
	st := s.state(ex)
	if st.sess != nil {
		return true
	}

	value, ok := findCookie(ex.Headers().Values(exchange.HeaderCookie), s.cookieName)
	if !ok {
		return false
	}
	id, err := token.Parse(value)
	if err != nil {
		return false
	}
	sess, ok := s.table.Get(id)
	if !ok {
		return false
	}

	st.sess, st.loaded = sess, true
	ex.SetSessionPresent(true)
	return true
}

// Ensure returns the exchange's session, loading it from the cookie or
// creating a new one. A new session is announced with Set-Cookie.
func (s *Store) Ensure(ex *exchange.Exchange) *Session {
	if s.Load(ex) {
		return s.state(ex).sess
	}

	sess := newSession(s.ids.Next(), s.csrf.Next(), s.clock())
	s.table.Put(sess)

	st := s.state(ex)
	st.sess = sess
	ex.SetSessionPresent(true)
	s.SetCookie(ex, sess)

	s.logger.DebugContext(ctxOf(ex), "session created",
		logger.Component("session"),
		logger.Event("session.created"),
	)
	return sess
}

// Destroy removes the exchange's session from the table and expires the
// cookie. It reports whether a session was bound.
func (s *Store) Destroy(ex *exchange.Exchange) bool {
	sess, ok := s.Current(ex)
	if !ok {
		if !s.Load(ex) {
			return false
		}
		sess, _ = s.Current(ex)
	}

	s.table.Delete(sess.id)
	st := s.state(ex)
	st.sess, st.loaded, st.issued = nil, false, false
	ex.SetSessionPresent(false)
	ex.ResponseHeaders().Add(exchange.HeaderSetCookie, formatExpiredCookie(s.cookieName))

	s.logger.DebugContext(ctxOf(ex), "session destroyed",
		logger.Component("session"),
		logger.Event("session.destroyed"),
	)
	return true
}

// CookieValue returns the cookie value that names sess.
func (s *Store) CookieValue(sess *Session) string {
	return sess.id.String()
}

// SetCookie stages a Set-Cookie header naming sess. Repeated calls on one
// exchange stage it once.
func (s *Store) SetCookie(ex *exchange.Exchange, sess *Session) {
	st := s.state(ex)
	if st.issued {
		return
	}
	st.issued = true
	ex.ResponseHeaders().Add(exchange.HeaderSetCookie, formatCookie(s.cookieName, s.CookieValue(sess)))
}

// Loader returns a handler that binds the cookie session, if any, and never
// processes the exchange. Place it ahead of the routes that read sessions.
func (s *Store) Loader() exchange.HandlerFunc {
	return func(ex *exchange.Exchange) error {
		s.Load(ex)
		return nil
	}
}

func ctxOf(ex *exchange.Exchange) context.Context {
	if ctx := ex.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
