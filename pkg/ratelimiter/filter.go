package ratelimiter

import (
	"hash/fnv"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/wirehttp/pkg/clientip"
	"github.com/dmitrymomot/wirehttp/pkg/exchange"
	"github.com/dmitrymomot/wirehttp/pkg/router"
)

// Response headers set by Filter.
const (
	HeaderLimit      exchange.HeaderName = "X-RateLimit-Limit"
	HeaderRemaining  exchange.HeaderName = "X-RateLimit-Remaining"
	HeaderReset      exchange.HeaderName = "X-RateLimit-Reset"
	HeaderRetryAfter exchange.HeaderName = "Retry-After"
)

// maxKeyLength is the longest key stored as is; longer keys are hashed.
const maxKeyLength = 64

// KeyFunc extracts a rate limit key from the exchange. An empty key skips
// limiting.
type KeyFunc func(ex *exchange.Exchange) string

// ByIP keys on the resolved client IP.
func ByIP() KeyFunc {
	return func(ex *exchange.Exchange) string {
		if ip := clientip.FromExchange(ex); ip != "" {
			return "ip:" + ip
		}
		return ""
	}
}

// ByPath keys on the request path.
func ByPath() KeyFunc {
	return func(ex *exchange.Exchange) string { return "path:" + ex.Path() }
}

// Composite joins the non-empty keys of keyFuncs with ':'. Keys longer than
// 64 bytes are hashed with FNV-1a.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(ex *exchange.Exchange) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(ex); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}

		combined := strings.Join(parts, ":")
		if len(combined) <= maxKeyLength {
			return combined
		}
		h := fnv.New64a()
		h.Write([]byte(combined))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

// Filter limits the wrapped routes per key. Every limited exchange carries
// the X-RateLimit headers; a denied one is answered 429 with Retry-After in
// whole seconds and never reaches the routes. Store failures are returned
// as handler errors.
func Filter(limiter RateLimiter, key KeyFunc) router.FilterFunc {
	return func(ex *exchange.Exchange, next func() error) error {
		k := key(ex)
		if k == "" {
			return next()
		}

		result, err := limiter.Allow(ex.Context(), k)
		if err != nil {
			return err
		}

		h := ex.ResponseHeaders()
		h.Set(HeaderLimit, strconv.Itoa(result.Limit))
		h.Set(HeaderRemaining, strconv.Itoa(max(0, result.Remaining)))
		h.Set(HeaderReset, strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed() {
			wait := result.RetryAfter(time.Now())
			secs := max(1, int((wait+time.Second-1)/time.Second))
			h.Set(HeaderRetryAfter, strconv.Itoa(secs))
			ex.Respond(exchange.StatusTooManyRequests, exchange.Text("Too Many Requests"))
			return nil
		}
		return next()
	}
}
