package transport

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound probe requests with a token bucket.
// It is optional: a Client with no RateLimiter attached sends requests
// as fast as the underlying transport allows.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter allowing requestsPerSecond
// sustained throughput with a burst of 2x that rate.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	burst := int(requestsPerSecond * 2)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until the limiter allows the next request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// WithRateLimit attaches a RateLimiter to c; every subsequent request
// blocks on it before hitting the wire.
func (c *Client) WithRateLimit(rl *RateLimiter) *Client {
	c.rateLimiter = rl
	return c
}
