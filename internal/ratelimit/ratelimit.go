package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// RateLimiter blocks until the next request to the origin may be sent.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Feedback is implemented by limiters that adjust their delay to how the
// origin responds.
type Feedback interface {
	RecordSuccess()
	RecordError()
}

// Window is the range a politeness delay is drawn from.
type Window struct {
	Min time.Duration
	Max time.Duration
}

func (w Window) draw() time.Duration {
	if w.Max <= w.Min {
		return w.Min
	}
	return w.Min + time.Duration(rand.Int63n(int64(w.Max-w.Min)))
}

func (w Window) scale(factor float64) Window {
	return Window{
		Min: time.Duration(float64(w.Min) * factor),
		Max: time.Duration(float64(w.Max) * factor),
	}
}

// JitterLimiter spaces consecutive requests by a random delay in [Min, Max).
// The first call never waits.
type JitterLimiter struct {
	mu     sync.Mutex
	window Window
	last   time.Time
}

func NewJitterLimiter(minDelay, maxDelay time.Duration) *JitterLimiter {
	return &JitterLimiter{window: Window{Min: minDelay, Max: maxDelay}}
}

func (l *JitterLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		remaining := l.window.draw() - time.Since(l.last)
		if remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	l.last = time.Now()
	return nil
}

func (l *JitterLimiter) Window() Window {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.window
}

const (
	errorsBeforeBackoff = 3
	successesBeforeEase = 6
	backoffFactor       = 1.5
	easeFactor          = 0.9
	defaultDelayCeiling = 30 * time.Second
)

// AdaptiveLimiter widens the window by half after three consecutive errors
// and eases the lower bound back towards its starting value after a run of
// successes. Min never exceeds the ceiling and Max never exceeds twice it.
type AdaptiveLimiter struct {
	*JitterLimiter
	base      Window
	ceiling   time.Duration
	errors    int
	successes int
}

func NewAdaptiveLimiter(minDelay, maxDelay time.Duration) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		JitterLimiter: NewJitterLimiter(minDelay, maxDelay),
		base:          Window{Min: minDelay, Max: maxDelay},
		ceiling:       defaultDelayCeiling,
	}
}

func (a *AdaptiveLimiter) RecordSuccess() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.errors = 0
	a.successes++
	if a.successes < successesBeforeEase {
		return
	}
	a.successes = 0

	eased := time.Duration(float64(a.window.Min) * easeFactor)
	a.window.Min = max(eased, a.base.Min)
	a.window.Max = max(a.window.Max, a.window.Min)
}

func (a *AdaptiveLimiter) RecordError() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.successes = 0
	a.errors++
	if a.errors < errorsBeforeBackoff {
		return
	}
	a.errors = 0

	widened := a.window.scale(backoffFactor)
	a.window = Window{
		Min: min(widened.Min, a.ceiling),
		Max: min(widened.Max, 2*a.ceiling),
	}
}
