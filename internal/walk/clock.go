package walk

import "sync/atomic"

// Clock is a monotonic visit counter. Every visited node is stamped with
// a strictly increasing seq so recorded matches have a total order that
// replays identically - never use wall-clock time for ordering.
//
// Safe for concurrent use, though the walker's single-threaded traversal
// means only one goroutine normally calls Next.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the latest issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
