package testutil

import "sync"

// DeterministicClock numbers recorded runs in tests. It satisfies
// harness.Clock and can be rewound, so a scenario set recorded twice gets
// the same seq values.
type DeterministicClock struct {
	mu    sync.Mutex
	start int64
	last  int64
}

// NewDeterministicClock returns a clock whose first Next is 1.
func NewDeterministicClock() *DeterministicClock {
	return NewDeterministicClockAt(0)
}

// NewDeterministicClockAt returns a clock whose first Next is start+1,
// matching a store whose highest recorded seq is start.
func NewDeterministicClockAt(start int64) *DeterministicClock {
	return &DeterministicClock{start: start, last: start}
}

func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last
}

// Current is the last seq handed out, or the start value.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Reset rewinds to the start value the clock was created with.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = c.start
}
