package host

import "time"

// Clock reports milliseconds elapsed since it was started.
// It reads the monotonic clock, so wall clock changes do not affect it.
type Clock struct {
	start time.Time
	now   func() time.Time
}

// NewClock returns a clock started now.
func NewClock() *Clock {
	return &Clock{start: time.Now(), now: time.Now}
}

// NewClockAt returns a clock driven by now, started at its first reading.
func NewClockAt(now func() time.Time) *Clock {
	return &Clock{start: now(), now: now}
}

// Millis returns the elapsed milliseconds.
func (c *Clock) Millis() uint64 {
	d := c.now().Sub(c.start)
	if d < 0 {
		return 0
	}
	return uint64(d / time.Millisecond)
}

// Elapsed returns the elapsed duration.
func (c *Clock) Elapsed() time.Duration {
	return c.now().Sub(c.start)
}

// Sleep blocks for ms milliseconds.
func Sleep(ms uint64) {
	if ms == 0 {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
