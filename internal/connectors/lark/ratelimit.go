package lark

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBackoff is the pause after a 429 without a usable reset header.
const DefaultBackoff = 10 * time.Second

// RateLimiter throttles open platform requests with a token bucket and
// holds back all requests after the platform reports rate limiting.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing rps sustained requests per second.
func NewRateLimiter(rps float64) *RateLimiter {
	burst := int(2 * rps)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimitError.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimitError sets a backoff period after a 429 response.
func (r *RateLimiter) RecordRateLimitError(backoff time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	r.retryAt = time.Now().Add(backoff)
}

// UpdateFromResponse records a backoff when resp reports rate limiting.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return
	}
	r.RecordRateLimitError(resetDelay(resp.Header))
}

// resetDelay reads the reset delay in seconds from the platform header,
// falling back to Retry-After.
func resetDelay(h http.Header) time.Duration {
	for _, key := range []string{"x-ogw-ratelimit-reset", "Retry-After"} {
		if v := h.Get(key); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return 0
}
