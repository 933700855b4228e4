package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCategory is used for categories without their own rate.
const DefaultCategory = "default"

// Store manages rate limiters for multiple clients.
// Limiters are keyed by category and client so a client exhausting one
// category does not affect another.
type Store struct {
	limiters map[string]*Limiter
	rates    map[string]Rate
	mu       sync.RWMutex

	// idleTTL is how long an unused limiter is kept
	idleTTL time.Duration
}

// NewStore creates a new store for managing rate limiters.
//
// Parameters:
//   - defaultRate: The rate for clients in categories without an explicit rate
//   - idleTTL: How long an unused limiter is retained before cleanup
//
// Returns:
//   - A configured limiter store
func NewStore(defaultRate Rate, idleTTL time.Duration) *Store {
	return &Store{
		limiters: make(map[string]*Limiter),
		rates:    map[string]Rate{DefaultCategory: defaultRate},
		idleTTL:  idleTTL,
	}
}

// GetLimiter returns the rate limiter for a client within a category,
// creating it on first use.
//
// Parameters:
//   - clientID: The unique identifier for the client (e.g., IP address)
//   - category: The rate category (e.g., "auth")
//
// Returns:
//   - A rate limiter for the client
func (s *Store) GetLimiter(clientID, category string) *Limiter {
	key := category + "|" + clientID

	s.mu.RLock()
	limiter, exists := s.limiters[key]
	s.mu.RUnlock()
	if exists {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have created it meanwhile
	if limiter, exists = s.limiters[key]; exists {
		return limiter
	}

	r, ok := s.rates[category]
	if !ok {
		r = s.rates[DefaultCategory]
	}

	limiter = NewLimiter(r)
	s.limiters[key] = limiter
	return limiter
}

// SetRate sets a rate limit for a specific category.
func (s *Store) SetRate(category string, r Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = r
}

// Run removes idle limiters every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.cleanup(now)
		}
	}
}

// cleanup removes limiters that have been idle for longer than idleTTL.
func (s *Store) cleanup(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, limiter := range s.limiters {
		if limiter.idleSince(now) > s.idleTTL {
			delete(s.limiters, key)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Int("remaining", len(s.limiters)).Msg("Rate limiter cleanup")
	}
}
