package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tracked(s *Store) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}

func TestStore_GetLimiter(t *testing.T) {
	store := NewStore(Rate{RequestsPerMinute: 60, Burst: 1}, time.Minute)

	a := store.GetLimiter("10.0.0.1", "auth")
	b := store.GetLimiter("10.0.0.1", "auth")
	c := store.GetLimiter("10.0.0.2", "auth")
	d := store.GetLimiter("10.0.0.1", "other")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.NotSame(t, a, d)
	assert.Equal(t, 3, tracked(store))
}

func TestStore_SetRate(t *testing.T) {
	store := NewStore(Rate{RequestsPerMinute: 60, Burst: 1}, time.Minute)
	store.SetRate("auth", Rate{RequestsPerMinute: 60, Burst: 3})

	auth := store.GetLimiter("client", "auth")
	fallback := store.GetLimiter("client", "unknown")

	allowed := 0
	for i := 0; i < 5; i++ {
		if auth.Allow() {
			allowed++
		}
	}
	assert.Equal(t, 3, allowed)

	assert.True(t, fallback.Allow())
	assert.False(t, fallback.Allow())
}

func TestStore_Cleanup(t *testing.T) {
	store := NewStore(Rate{RequestsPerMinute: 60, Burst: 1}, time.Minute)
	store.GetLimiter("old", "auth")
	fresh := store.GetLimiter("fresh", "auth")

	store.cleanup(time.Now().Add(30 * time.Second))
	assert.Equal(t, 2, tracked(store))

	fresh.lastSeen.Store(time.Now().Add(2 * time.Minute).UnixNano())
	store.cleanup(time.Now().Add(90 * time.Second))
	assert.Equal(t, 1, tracked(store))
	assert.Same(t, fresh, store.GetLimiter("fresh", "auth"))
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	store := NewStore(Rate{RequestsPerMinute: 60, Burst: 1}, time.Nanosecond)
	store.GetLimiter("client", "auth")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return tracked(store) == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
