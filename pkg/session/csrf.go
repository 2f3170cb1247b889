package session

import (
	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/logger"
	"github.com/dmitrymomot/wirehttp/pkg/token"
)

// csrfFailureBody is the fixed 403 body for rejected requests.
const csrfFailureBody = "Invalid or missing CSRF token"

// RequireCSRF reports whether the exchange may proceed. GET and HEAD always
// may. Any other method needs a session from the request cookie and a CSRF
// header equal to its token; otherwise the exchange is answered with 403 and
// false is returned. The session cookie is re-issued on a rejection only
// when the request carried a valid session.
func (s *Store) RequireCSRF(ex *exchange.Exchange) bool {
	if ex.Method().IsSafe() {
		return true
	}

	var sess *Session
	if s.Load(ex) {
		if st := s.state(ex); st.loaded {
			sess = st.sess
		}
	}

	reason := "missing_session"
	if sess != nil {
		candidate, ok := ex.Headers().Lookup(s.csrfHeader)
		switch {
		case !ok:
			reason = "missing_header"
		case !token.EqualString(sess.csrf, candidate):
			reason = "mismatch"
		default:
			return true
		}
	}

	ex.Respond(exchange.StatusForbidden, exchange.Text(csrfFailureBody))
	if sess != nil {
		s.SetCookie(ex, sess)
	}

	s.logger.WarnContext(ctxOf(ex), "csrf check failed",
		logger.Component("session"),
		logger.Event("csrf.rejected"),
		logger.Reason(reason),
		logger.Method(string(ex.Method())),
		logger.Path(ex.Path()),
	)
	return false
}

// CSRFGuard returns a handler that runs RequireCSRF. It processes the
// exchange only when it rejects it, so routes after it run otherwise.
func (s *Store) CSRFGuard() exchange.HandlerFunc {
	return func(ex *exchange.Exchange) error {
		s.RequireCSRF(ex)
		return nil
	}
}
