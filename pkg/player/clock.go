// ABOUTME: Playback clock abstraction
// ABOUTME: Monotonic time source used to derive the playback position
package player

import "time"

// Clock is a monotonically increasing time reference. The transport
// derives the playback position from it instead of incrementing a
// counter, so the position can never drift while playing.
type Clock interface {
	Now() time.Duration
}

// SystemClock reads the OS monotonic clock relative to its creation
type SystemClock struct {
	origin time.Time
}

// NewSystemClock creates a clock anchored at the current instant
func NewSystemClock() *SystemClock {
	return &SystemClock{origin: time.Now()}
}

// Now returns the time elapsed since the clock was created
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.origin)
}
