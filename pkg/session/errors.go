package session

import "errors"

var (
	// ErrInvalidCookieName indicates a cookie name outside the cookie token grammar.
	ErrInvalidCookieName = errors.New("session.invalid_cookie_name")

	// ErrInvalidHeaderName indicates a CSRF header name that is not an HTTP token.
	ErrInvalidHeaderName = errors.New("session.invalid_header_name")

	// ErrInvalidConfig indicates an unusable option value.
	ErrInvalidConfig = errors.New("session.invalid_config")
)
