package ratelimit

import (
	"time"

	"github.com/equiptrack/linebot-go/internal/metrics"
)

// UserRateLimiter throttles webhook traffic per chat user. Drops and
// the active bucket count are reported to the metrics registry.
type UserRateLimiter struct {
	pkl *PerKeyLimiter
}

// NewUserRateLimiter creates a per-user rate limiter.
// Remember to call Stop() when done to prevent goroutine leaks.
func NewUserRateLimiter(maxTokens, refillRate float64, cleanup time.Duration, m *metrics.Metrics) *UserRateLimiter {
	pkl := NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     maxTokens,
		RefillRate:    refillRate,
		CleanupPeriod: cleanup,
	})

	if m != nil {
		pkl.OnDrop(func() {
			m.RecordRateLimiterDrop("user")
		})
		pkl.OnUpdate(func(count int) {
			m.SetRateLimiterUsers(count)
		})
	}

	return &UserRateLimiter{pkl: pkl}
}

// Allow checks if a request from the user is allowed.
func (u *UserRateLimiter) Allow(userID string) bool {
	return u.pkl.Allow(userID)
}

// GetActiveCount returns the current number of active user buckets.
func (u *UserRateLimiter) GetActiveCount() int {
	return u.pkl.GetActiveCount()
}

// Stop gracefully stops the cleanup goroutine.
// Safe to call multiple times.
func (u *UserRateLimiter) Stop() {
	u.pkl.Stop()
}
