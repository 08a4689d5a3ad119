package ratelimit

import (
	"sync"
	"time"
)

// SessionLimiterConfig configures a SessionLimiter instance.
type SessionLimiterConfig struct {
	MaxTokens     float64       // Burst capacity per session
	RefillRate    float64       // Tokens refilled per second
	CleanupPeriod time.Duration // How often idle buckets are removed
}

// SessionLimiter tracks rate limits per chat session. Each session gets
// its own token bucket; buckets that refill back to capacity are removed
// by a background cleanup loop.
type SessionLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*Bucket
	config  SessionLimiterConfig
	onDrop  func() // called when a request is dropped
	stopCh  chan struct{}
}

// NewSessionLimiter creates a per-session rate limiter and starts its
// cleanup loop. Call Stop when done.
func NewSessionLimiter(cfg SessionLimiterConfig) *SessionLimiter {
	if cfg.CleanupPeriod <= 0 {
		cfg.CleanupPeriod = 5 * time.Minute
	}

	sl := &SessionLimiter{
		buckets: make(map[string]*Bucket),
		config:  cfg,
		stopCh:  make(chan struct{}),
	}

	go sl.cleanupLoop()

	return sl
}

// OnDrop sets a callback invoked whenever a request is rejected.
func (sl *SessionLimiter) OnDrop(fn func()) {
	sl.onDrop = fn
}

// Allow reports whether a request for the given session is allowed,
// consuming a token if so. An empty session ID is always allowed.
func (sl *SessionLimiter) Allow(sessionID string) bool {
	if sessionID == "" {
		return true
	}

	sl.mu.RLock()
	bucket, exists := sl.buckets[sessionID]
	sl.mu.RUnlock()

	if !exists {
		sl.mu.Lock()
		bucket, exists = sl.buckets[sessionID]
		if !exists {
			bucket = NewBucket(sl.config.MaxTokens, sl.config.RefillRate)
			sl.buckets[sessionID] = bucket
		}
		sl.mu.Unlock()
	}

	allowed := bucket.Allow()
	if !allowed && sl.onDrop != nil {
		sl.onDrop()
	}
	return allowed
}

// ActiveCount returns the number of sessions currently tracked.
func (sl *SessionLimiter) ActiveCount() int {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return len(sl.buckets)
}

func (sl *SessionLimiter) cleanupLoop() {
	ticker := time.NewTicker(sl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-sl.stopCh:
			return
		case <-ticker.C:
			sl.mu.Lock()
			for id, bucket := range sl.buckets {
				if bucket.IsFull() {
					delete(sl.buckets, id)
				}
			}
			sl.mu.Unlock()
		}
	}
}

// Stop terminates the cleanup loop. Safe to call multiple times.
func (sl *SessionLimiter) Stop() {
	select {
	case <-sl.stopCh:
	default:
		close(sl.stopCh)
	}
}
