package clientip

import (
	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/router"
)

// Filter resolves the client IP once per exchange and stores it in the
// exchange context for FromExchange.
func Filter() router.FilterFunc {
	return func(ex *exchange.Exchange, next func() error) error {
		ex.SetContext(WithIP(ex.Context(), GetIP(ex)))
		return next()
	}
}
