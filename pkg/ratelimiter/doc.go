// Package ratelimiter provides token bucket rate limiting with in-memory and
// Redis storage and HTTP middleware.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request takes one token; a request that finds too few
// is denied and takes nothing.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       20,
//		RefillRate:     1,
//		RefillInterval: 3 * time.Second,
//	})
//
//	r.With(ratelimiter.Middleware(limiter, clientip.Key)).Post("/signup/{role}", h)
//
// Use NewRedisStore when several instances must share the same limits.
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining,
// X-RateLimit-Reset and, when denied, Retry-After.
package ratelimiter
