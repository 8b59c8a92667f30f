// Package ratelimit implements fixed-window rate limiting keyed by client
// fingerprint. State lives only in process memory; a restart resets every
// window, which is acceptable because the limit is a soft cost guard, not
// an admission-control guarantee.
package ratelimit

import (
	"sync"
	"time"
)

// window tracks one fingerprint's budget in the current period.
type window struct {
	count     int
	resetTime time.Time
}

// Limiter manages rate limits per fingerprint
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

// New builds a limiter allowing limit requests per period and starts the
// idle-window cleanup loop.
func New(limit int, period time.Duration) *Limiter {
	l := NewWithClock(limit, period, time.Now)
	go l.cleanup()
	return l
}

// NewWithClock is New with an injected clock and no cleanup goroutine.
func NewWithClock(limit int, period time.Duration, now func() time.Time) *Limiter {
	if limit <= 0 {
		limit = 5
	}
	if period <= 0 {
		period = time.Hour
	}
	return &Limiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     now,
	}
}

// Allow reports whether this fingerprint may proceed, plus the instant its
// current window resets. First request for a fingerprint, or any request
// after the stored window expired, starts a fresh window.
func (l *Limiter) Allow(fingerprint string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[fingerprint]
	if !ok || now.After(w.resetTime) {
		w = &window{count: 1, resetTime: now.Add(l.period)}
		l.windows[fingerprint] = w
		return true, w.resetTime
	}

	if w.count >= l.limit {
		return false, w.resetTime
	}
	w.count++
	return true, w.resetTime
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := l.now()
		for key, w := range l.windows {
			if now.After(w.resetTime) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}
