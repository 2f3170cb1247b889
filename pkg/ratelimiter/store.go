package ratelimiter

import (
	"context"
	"time"
)

// Store defines the interface for rate limit storage backends.
type Store interface {
	// ConsumeTokens takes tokens from the key's bucket and returns what is
	// left and when the next refill happens. A negative remainder means the
	// request is denied and nothing was taken. Zero tokens only refreshes
	// the bucket.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}
