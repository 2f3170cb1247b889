// Package session binds server-side attribute state to a single cookie and
// guards unsafe requests with a per-session CSRF token.
//
// A Store owns a concurrent table of sessions keyed by token.Token. Each
// Session carries two tokens drawn from independent generators: its
// identifier, which travels in the session cookie as standard Base64, and a
// CSRF token that clients echo back in a dedicated request header.
//
// # Architecture
//
//	┌──────────┐  Cookie: sid=…   ┌───────┐  Get/Put  ┌───────┐
//	│ Exchange │ ───────────────► │ Store │ ────────► │ Table │ (memory, LRU)
//	└──────────┘                  └───────┘           └───────┘
//	       ▲      Set-Cookie          │
//	       └──────────────────────────┘
//
// Sessions are never expired by the store itself. Eviction is an external
// policy: call MemoryTable.Prune from a ticker, or bound the table with
// LRUTable.
//
// # Usage
//
//	import (
//	    "github.com/dmitrymomot/wirehttp/pkg/attr"
//	    "github.com/dmitrymomot/wirehttp/pkg/exchange"
//	    "github.com/dmitrymomot/wirehttp/pkg/router"
//	    "github.com/dmitrymomot/wirehttp/pkg/session"
//	)
//
//	store := session.MustNew(session.WithCookieName("sid"))
//	visits := attr.NewKey[*atomic.Int64]("app.visits")
//
//	r := router.New(
//	    router.Handle(store.Loader()),
//	    router.Handle(store.CSRFGuard()),
//	    router.Path("/", router.Get(func(ex *exchange.Exchange) error {
//	        sess := store.Ensure(ex)
//	        n := session.Value(sess, visits, func() *atomic.Int64 { return new(atomic.Int64) })
//	        ex.Respond(exchange.StatusOK, exchange.Text(strconv.FormatInt(n.Add(1), 10)))
//	        return nil
//	    })),
//	)
//
// # CSRF
//
// RequireCSRF lets GET and HEAD through unconditionally. Every other method
// needs a session loaded from the request cookie and a header (X-CSRF-Token
// by default) equal to the session's CSRF token. Failures respond 403 with
// the fixed body "Invalid or missing CSRF token"; when the request did carry
// a valid session its cookie is re-issued on that response.
//
// # Attributes
//
// Session attributes are addressed by attr.Key and initialized lazily by a
// supplier on first access. Access is serialized per session, so two
// exchanges carrying the same cookie may touch attributes concurrently.
//
// # Configuration
//
// NewFromConfig reads SESSION_COOKIE_NAME, SESSION_CSRF_HEADER and
// SESSION_MAX_SESSIONS through the config package. A positive MaxSessions
// selects an LRUTable of that capacity.
package session
