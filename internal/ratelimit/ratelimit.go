// Package ratelimit throttles credential endpoints per client IP to slow
// down brute-force attempts.
package ratelimit

import (
	"sync"
	"time"
)

// RateLimiter tracks request timestamps per key over sliding windows.
type RateLimiter struct {
	requestsPerMinute int
	requestsPerHour   int
	enabled           bool

	mu      sync.Mutex
	windows map[string][]time.Time
}

// NewRateLimiter creates a rate limiter with the given per-key limits.
func NewRateLimiter(requestsPerMinute, requestsPerHour int, enabled bool) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		enabled:           enabled,
		windows:           make(map[string][]time.Time),
	}
}

// AllowRequest records one request for the key and reports whether it is
// within the limits.
func (rl *RateLimiter) AllowRequest(key string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	window := filterTimes(rl.windows[key], now.Add(-1*time.Hour))

	if rl.requestsPerHour > 0 && len(window) >= rl.requestsPerHour {
		rl.windows[key] = window
		return false
	}
	lastMinute := 0
	minuteAgo := now.Add(-1 * time.Minute)
	for _, t := range window {
		if t.After(minuteAgo) {
			lastMinute++
		}
	}
	if rl.requestsPerMinute > 0 && lastMinute >= rl.requestsPerMinute {
		rl.windows[key] = window
		return false
	}

	rl.windows[key] = append(window, now)
	return true
}

// Stats describes one key's current usage.
type Stats struct {
	Enabled            bool `json:"enabled"`
	RequestsLastMinute int  `json:"requests_last_minute"`
	RequestsLastHour   int  `json:"requests_last_hour"`
	LimitPerMinute     int  `json:"limit_per_minute"`
	LimitPerHour       int  `json:"limit_per_hour"`
}

// GetStats returns the current usage for a key.
func (rl *RateLimiter) GetStats(key string) Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	window := filterTimes(rl.windows[key], now.Add(-1*time.Hour))
	rl.windows[key] = window

	lastMinute := 0
	minuteAgo := now.Add(-1 * time.Minute)
	for _, t := range window {
		if t.After(minuteAgo) {
			lastMinute++
		}
	}

	return Stats{
		Enabled:            true,
		RequestsLastMinute: lastMinute,
		RequestsLastHour:   len(window),
		LimitPerMinute:     rl.requestsPerMinute,
		LimitPerHour:       rl.requestsPerHour,
	}
}

// Reset clears all tracked requests.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windows = make(map[string][]time.Time)
}

func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}
