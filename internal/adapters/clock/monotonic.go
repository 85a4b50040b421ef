package clock

import "time"

// Monotonic counts milliseconds since it was created.
// It reads the runtime's monotonic clock, so wall clock changes do not affect it.
type Monotonic struct {
	start time.Time
}

// NewMonotonic starts a clock at zero
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

// Millis returns elapsed milliseconds truncated to 32 bits
func (c *Monotonic) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
