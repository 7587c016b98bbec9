package ratelimit

import (
	"sync"
	"time"
)

// PerKeyConfig configures a PerKeyLimiter.
type PerKeyConfig struct {
	MaxTokens     float64       // Burst capacity per key
	RefillRate    float64       // Tokens refilled per second
	CleanupPeriod time.Duration // How often idle buckets are discarded
}

// PerKeyLimiter maintains one token bucket per key (client IP, user id) and
// discards buckets that have refilled completely, so idle clients do not
// accumulate state.
type PerKeyLimiter struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
	config   PerKeyConfig
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPerKey creates a per-key limiter and starts its cleanup loop.
// Call Stop when done.
func NewPerKey(cfg PerKeyConfig) *PerKeyLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}
	pkl := &PerKeyLimiter{
		limiters: make(map[string]*Limiter),
		config:   cfg,
		stopCh:   make(chan struct{}),
	}

	go pkl.cleanupLoop()

	return pkl
}

// Allow reports whether a request from the given key is allowed, consuming
// one of its tokens when it is.
func (pkl *PerKeyLimiter) Allow(key string) bool {
	pkl.mu.Lock()
	limiter, ok := pkl.limiters[key]
	if !ok {
		limiter = New(pkl.config.MaxTokens, pkl.config.RefillRate)
		pkl.limiters[key] = limiter
	}
	pkl.mu.Unlock()

	return limiter.Allow()
}

// ActiveCount returns the number of keys currently tracked.
func (pkl *PerKeyLimiter) ActiveCount() int {
	pkl.mu.Lock()
	defer pkl.mu.Unlock()
	return len(pkl.limiters)
}

// Stop terminates the cleanup loop. Safe to call more than once.
func (pkl *PerKeyLimiter) Stop() {
	pkl.stopOnce.Do(func() { close(pkl.stopCh) })
}

func (pkl *PerKeyLimiter) cleanupLoop() {
	ticker := time.NewTicker(pkl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-pkl.stopCh:
			return
		case <-ticker.C:
			pkl.cleanup()
		}
	}
}

// cleanup discards buckets that are full again: their owners have been idle
// for at least a full refill cycle.
func (pkl *PerKeyLimiter) cleanup() {
	pkl.mu.Lock()
	defer pkl.mu.Unlock()

	for key, limiter := range pkl.limiters {
		if limiter.IsFull() {
			delete(pkl.limiters, key)
		}
	}
}
