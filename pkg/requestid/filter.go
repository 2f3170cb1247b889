package requestid

import (
	"regexp"

	"github.com/google/uuid"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/router"
)

const (
	Header      exchange.HeaderName = "X-Request-ID"
	maxIDLength                     = 128
	idPattern                       = "^[a-zA-Z0-9_-]+$"
)

var validIDRegex = regexp.MustCompile(idPattern)

// Filter returns a router filter that tags every exchange with a request ID.
// A valid inbound X-Request-ID is reused, otherwise a UUIDv4 is generated.
// The ID is stored in the exchange context and echoed in the response,
// error responses included.
//
// The echo is installed as the exchange's response listener, replacing any
// listener registered before the filter ran.
func Filter() router.FilterFunc {
	return func(ex *exchange.Exchange, next func() error) error {
		id := ex.Header(Header)
		if !isValidRequestID(id) {
			id = uuid.New().String()
		}
		ex.SetContext(WithContext(ex.Context(), id))
		ex.SetResponseListener(func(ex *exchange.Exchange) {
			ex.ResponseHeaders().Set(Header, id)
		})
		return next()
	}
}

func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validIDRegex.MatchString(id)
}
