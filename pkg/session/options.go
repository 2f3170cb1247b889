package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/token"
)

// Option is a functional option for configuring the Store.
type Option func(*Store)

// WithCookieName sets the session cookie name. The name is validated by New.
func WithCookieName(name string) Option {
	return func(s *Store) {
		s.cookieName = name
	}
}

// WithCSRFHeader sets the request header that carries the CSRF token.
func WithCSRFHeader(name string) Option {
	return func(s *Store) {
		s.csrfHeader = exchange.HeaderName(name)
	}
}

// WithIDGenerator sets the generator for session identifiers.
func WithIDGenerator(g *token.Generator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithCSRFGenerator sets the generator for CSRF tokens.
func WithCSRFGenerator(g *token.Generator) Option {
	return func(s *Store) {
		if g != nil {
			s.csrf = g
		}
	}
}

// WithTable sets the session table.
func WithTable(t Table) Option {
	return func(s *Store) {
		if t != nil {
			s.table = t
		}
	}
}

// WithClock sets the time source for session creation timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the logger for session lifecycle and CSRF rejections.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}
