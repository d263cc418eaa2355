package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carematch/pkg/ratelimiter"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newBucket(t *testing.T, cfg ratelimiter.Config) (*ratelimiter.Bucket, *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0), ratelimiter.WithClock(clk.Now))
	b, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return b, clk
}

func TestNewBucket_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []ratelimiter.Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1, RefillInterval: 0},
	}
	for _, cfg := range tests {
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	}
}

func TestBucket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Second}

	t.Run("burst then deny", func(t *testing.T) {
		b, _ := newBucket(t, cfg)

		for want := 2; want >= 0; want-- {
			res, err := b.Allow(ctx, "ip")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, want, res.Remaining)
			assert.Equal(t, 3, res.Limit)
		}

		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.False(t, res.Allowed())

		other, err := b.Allow(ctx, "other")
		require.NoError(t, err)
		assert.True(t, other.Allowed(), "keys are independent")
	})

	t.Run("denied requests take nothing", func(t *testing.T) {
		b, clk := newBucket(t, cfg)

		_, err := b.AllowN(ctx, "ip", 3)
		require.NoError(t, err)
		for range 5 {
			res, err := b.Allow(ctx, "ip")
			require.NoError(t, err)
			assert.False(t, res.Allowed())
		}

		clk.Advance(time.Second)
		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, 0, res.Remaining)
	})

	t.Run("refill keeps partial intervals", func(t *testing.T) {
		b, clk := newBucket(t, cfg)

		_, err := b.AllowN(ctx, "ip", 3)
		require.NoError(t, err)

		clk.Advance(1500 * time.Millisecond)
		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed())

		clk.Advance(500 * time.Millisecond)
		res, err = b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("refill is capped", func(t *testing.T) {
		b, clk := newBucket(t, cfg)

		_, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		clk.Advance(time.Hour)

		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Remaining)
	})

	t.Run("reset", func(t *testing.T) {
		b, _ := newBucket(t, cfg)

		_, err := b.AllowN(ctx, "ip", 3)
		require.NoError(t, err)
		require.NoError(t, b.Reset(ctx, "ip"))

		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Remaining)
	})

	t.Run("invalid token count", func(t *testing.T) {
		b, _ := newBucket(t, cfg)
		_, err := b.AllowN(ctx, "ip", 0)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})
}

func TestMemoryStore_RemoveStale(t *testing.T) {
	t.Parallel()

	clk := &clock{now: time.Now()}
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0), ratelimiter.WithClock(clk.Now))
	defer store.Close()

	cfg := ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second}
	_, _, err := store.ConsumeTokens(context.Background(), "a", 1, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	clk.Advance(2 * time.Hour)
	store.RemoveStale()
	assert.Equal(t, 0, store.Len())

	store.Close()
	store.Close()
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*ratelimiter.Result, error) {
	return nil, ratelimiter.ErrStoreUnavailable
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	byHeader := func(r *http.Request) string { return r.Header.Get("X-Key") }

	t.Run("limits per key", func(t *testing.T) {
		b, _ := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
		var denied *ratelimiter.Result
		h := ratelimiter.Middleware(b, byHeader, ratelimiter.WithDeniedHandler(func(w http.ResponseWriter, r *http.Request, res *ratelimiter.Result) {
			denied = res
			w.WriteHeader(http.StatusTooManyRequests)
		}))(ok)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Key", "a")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
		require.NotNil(t, denied)
		assert.False(t, denied.Allowed())
	})

	t.Run("empty key is not limited", func(t *testing.T) {
		h := ratelimiter.Middleware(failingLimiter{}, byHeader)(ok)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("store errors", func(t *testing.T) {
		var got error
		h := ratelimiter.Middleware(failingLimiter{}, byHeader, ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			got = err
			w.WriteHeader(http.StatusServiceUnavailable)
		}))(ok)

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Key", "a")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.True(t, errors.Is(got, ratelimiter.ErrStoreUnavailable))
	})
}

func TestComposite(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	constant := func(s string) ratelimiter.KeyFunc {
		return func(*http.Request) string { return s }
	}

	assert.Equal(t, "", ratelimiter.Composite(constant(""))(req))
	assert.Equal(t, "a:b", ratelimiter.Composite(constant("a"), constant(""), constant("b"))(req))

	long := ratelimiter.Composite(constant(strings.Repeat("x", 80)))(req)
	assert.LessOrEqual(t, len(long), 64)
	assert.NotContains(t, long, "x")

	assert.Equal(t, "signup:a", ratelimiter.Prefix("signup", constant("a"))(req))
	assert.Equal(t, "", ratelimiter.Prefix("signup", constant(""))(req))
}
