package clientip

import (
	"context"

	"github.com/dmitrymomot/wirehttp/pkg/exchange"
)

type ipKey struct{}

// WithIP returns a copy of ctx carrying the resolved client address.
func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ipKey{}, ip)
}

// IPFromContext returns the address stored by WithIP, or "".
func IPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(ipKey{}).(string)
	return ip
}

// FromExchange returns the client address resolved by Filter. Exchanges that
// did not pass through Filter are resolved on the spot.
func FromExchange(ex *exchange.Exchange) string {
	if ip := IPFromContext(ex.Context()); ip != "" {
		return ip
	}
	return GetIP(ex)
}
