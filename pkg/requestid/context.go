package requestid

import (
	"context"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

type idKey struct{}

// WithContext returns a copy of ctx carrying the request ID. Loggers built
// with LoggerExtractor read it back from there.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, idKey{}, id)
}

// FromContext returns the request ID carried by ctx, or "".
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(idKey{}).(string)
	return id
}

// FromExchange returns the request ID Filter attached to the exchange.
func FromExchange(ex *exchange.Exchange) string {
	return FromContext(ex.Context())
}
