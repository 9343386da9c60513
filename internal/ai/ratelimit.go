package ai

import (
	"sync"
	"time"

	"idea-collab-api/internal/cache"
)

// RateLimiter enforces a per-user sliding window of enhancement requests.
type RateLimiter struct {
	mu       sync.Mutex
	requests *cache.TTLCache[string, []time.Time]
	window   time.Duration
	max      int
}

// NewRateLimiter allows max requests per user within window.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: cache.New[string, []time.Time](),
		window:   window,
		max:      max,
	}
}

// Allow records a request for userID and reports whether it is within the limit.
func (rl *RateLimiter) Allow(userID string) bool {
	nowTs := time.Now()
	cutoff := nowTs.Add(-rl.window)

	// The read-filter-write sequence must be atomic: concurrent requests
	// from the same user would otherwise trim and append into the same
	// backing array handed out by the cache.
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stamps, _ := rl.requests.Get(userID)
	recent := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= rl.max {
		rl.requests.Set(userID, recent, rl.window)
		return false
	}

	recent = append(recent, nowTs)
	// The whole entry expires once the user goes quiet for a full window.
	rl.requests.Set(userID, recent, rl.window)
	return true
}
