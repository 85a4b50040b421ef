package mock

import (
	"sync"
	"time"
)

// FakeClock is a manually advanced millisecond clock for tests
// This implements the ports.Clock interface
type FakeClock struct {
	mu  sync.Mutex
	now uint32
}

// NewFakeClock creates a clock starting at startMs
func NewFakeClock(startMs uint32) *FakeClock {
	return &FakeClock{now: startMs}
}

// Millis returns the current synthetic time
func (c *FakeClock) Millis() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward, wrapping like a hardware counter
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += uint32(d.Milliseconds())
}
