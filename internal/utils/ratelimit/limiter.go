// Package ratelimit provides per-client rate limiting for the credential
// endpoints. Each client gets a token bucket from golang.org/x/time/rate.
package ratelimit

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is the token bucket of a single client.
type Limiter struct {
	bucket *rate.Limiter

	// lastSeen holds the unix nano time of the most recent Allow call
	lastSeen atomic.Int64
}

// Rate controls how many requests are allowed
type Rate struct {
	// RequestsPerMinute is the sustained refill rate
	RequestsPerMinute int

	// Burst defines the maximum size of the token bucket
	Burst int
}

// Limit converts the per minute rate to a rate.Limit.
func (r Rate) Limit() rate.Limit {
	if r.RequestsPerMinute <= 0 {
		return 0
	}
	return rate.Every(time.Minute / time.Duration(r.RequestsPerMinute))
}

// NewLimiter creates a new rate limiter with the specified rate.
//
// Parameters:
//   - r: The refill rate and burst capacity
//
// Returns:
//   - A configured rate limiter with a full bucket
func NewLimiter(r Rate) *Limiter {
	l := &Limiter{bucket: rate.NewLimiter(r.Limit(), r.Burst)}
	l.lastSeen.Store(time.Now().UnixNano())
	return l
}

// Allow reports whether a request may proceed now and consumes a token if so.
func (l *Limiter) Allow() bool {
	now := time.Now()
	l.lastSeen.Store(now.UnixNano())
	return l.bucket.AllowN(now, 1)
}

// RetryAfter returns how long a rejected client should wait for the next token.
func (l *Limiter) RetryAfter() time.Duration {
	limit := l.bucket.Limit()
	if limit <= 0 {
		return time.Minute
	}
	return time.Duration(float64(time.Second) / float64(limit))
}

// idleSince reports how long the limiter has gone unused.
func (l *Limiter) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, l.lastSeen.Load()))
}
