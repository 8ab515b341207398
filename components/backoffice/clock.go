package backoffice

import (
	"sync"
	"time"
)

// Clock abstracts time so expiry and validity logic can be tested.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return realClock{} }

func normalizeClock(c Clock) Clock {
	if c == nil {
		return realClock{}
	}
	return c
}

// MockClock is a settable clock for tests and demos.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMockClock builds a clock frozen at t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set moves the clock to t.
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Add advances the clock by d.
func (c *MockClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
