package router

import "errors"

// ErrInvalidPattern is returned by Parse for malformed path patterns.
var ErrInvalidPattern = errors.New("router: invalid pattern")
