// Package ratelimiter provides token bucket rate limiting with an in-memory
// store and a router filter.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request takes one token; a request finding too few
// is denied without consuming any.
//
// # Basic Usage
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       100,
//		RefillRate:     10,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	result, err := limiter.Allow(ctx, "user:123")
//	if err != nil {
//		return err
//	}
//	if !result.Allowed() {
//		// retry after result.RetryAfter(time.Now())
//	}
//
// # Router Filter
//
// Filter guards a subtree. Limited exchanges carry X-RateLimit-Limit,
// X-RateLimit-Remaining and X-RateLimit-Reset; denied ones are answered
// 429 Too Many Requests with Retry-After:
//
//	r := router.New(
//		router.Filter(clientip.Filter(),
//			router.Filter(ratelimiter.Filter(limiter, ratelimiter.ByIP()),
//				router.Path("/login", router.Post(login)),
//			),
//		),
//	)
//
// Composite combines key functions; keys longer than 64 bytes are hashed
// with FNV-1a.
//
// # Memory Management
//
// MemoryStore drops buckets untouched for an hour (WithStaleAfter) from a
// background goroutine running every WithCleanupInterval. Close stops it.
//
// # Configuration
//
// Config carries env tags (RATE_LIMIT_CAPACITY, RATE_LIMIT_REFILL_RATE,
// RATE_LIMIT_REFILL_INTERVAL) for use with the config package.
package ratelimiter
