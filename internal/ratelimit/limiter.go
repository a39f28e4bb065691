// Package ratelimit implements the in-memory sliding-window limiter that
// bounds profile mutations issued by one client instance.
package ratelimit

import (
	"sync"
	"time"
)

const (
	DefaultMaxRequests = 10
	DefaultWindow      = time.Minute
)

// Limiter admits at most maxRequests calls in any trailing window.
type Limiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	requests    []time.Time
	now         func() time.Time
}

type Option func(*Limiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New builds a limiter. Non-positive arguments fall back to the defaults.
func New(maxRequests int, window time.Duration, opts ...Option) *Limiter {
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	if window <= 0 {
		window = DefaultWindow
	}
	l := &Limiter{maxRequests: maxRequests, window: window, now: time.Now}
	for _, o := range opts {
		o(l)
	}
	return l
}

// prune drops timestamps that fell out of the window. Caller holds mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.requests) && !l.requests[i].After(cutoff) {
		i++
	}
	l.requests = l.requests[i:]
}

// CanMakeRequest records a request and returns true when the window has room,
// and returns false without recording otherwise.
func (l *Limiter) CanMakeRequest() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.requests) >= l.maxRequests {
		return false
	}
	l.requests = append(l.requests, now)
	return true
}

// TimeUntilReset is how long until the oldest recorded request leaves the
// window. It is zero when the window is empty.
func (l *Limiter) TimeUntilReset() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	if len(l.requests) == 0 {
		return 0
	}
	d := l.window - now.Sub(l.requests[0])
	if d < 0 {
		return 0
	}
	return d
}

// Reset forgets every recorded request.
func (l *Limiter) Reset() {
	l.mu.Lock()
	l.requests = nil
	l.mu.Unlock()
}
