// Package clock abstracts wall-clock time so time-dependent rules can be tested.
package clock

import (
	"sync"
	"time"
)

// Clock interface for testing time-dependent behavior.
type Clock interface {
	Now() time.Time
}

// Real is the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Mock is a controllable clock for tests.
type Mock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMock(now time.Time) *Mock {
	return &Mock{now: now}
}

func (c *Mock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Mock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *Mock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
