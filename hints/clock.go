package hints

import (
	"time"

	"go.uber.org/atomic"
)

// Clock is a monotonic-ish wall-clock reader (spec.md §5): it advances only
// when the OS wall clock advances, and holds steady rather than moving
// backward if the wall clock is ever set back. This keeps a server from
// being stranded in (or escaping early from) the penalty box by a clock
// step.
type Clock struct {
	last atomic.Int64
}

// NewClock returns a Clock with no prior reading.
func NewClock() *Clock { return &Clock{} }

// Now returns the current reading, in Unix seconds.
func (c *Clock) Now() int64 {
	for {
		observed := time.Now().Unix()
		last := c.last.Load()
		if observed <= last {
			return last
		}
		if c.last.CompareAndSwap(last, observed) {
			return observed
		}
	}
}
