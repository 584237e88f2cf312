package crdt

import (
	"sync"
	"time"
)

// Structs

// Timestamp tags every entry in an add or remove log.
// Only its relative order matters.
type Timestamp int64

// Clock hands out the timestamps that LWWSet attaches
// to add and remove operations.
type Clock interface {
	Now() Timestamp
}

// ClockFunc allows a plain function to be used as Clock.
type ClockFunc func() Timestamp

// ManualClock is a Clock that only moves when told to.
// It is safe for concurrent use and lets tests force
// exact ties and exact orderings between operations.
type ManualClock struct {
	lock *sync.Mutex
	now  Timestamp
}

// Functions

// Now calls f.
func (f ClockFunc) Now() Timestamp {
	return f()
}

// SystemClock returns a Clock reading nanoseconds
// from the wall clock.
func SystemClock() Clock {

	return ClockFunc(func() Timestamp {
		return Timestamp(time.Now().UnixNano())
	})
}

// InitManualClock returns a ManualClock
// standing at timestamp start.
func InitManualClock(start Timestamp) *ManualClock {

	return &ManualClock{
		lock: new(sync.Mutex),
		now:  start,
	}
}

// Now returns the current reading of c.
func (c *ManualClock) Now() Timestamp {

	c.lock.Lock()
	defer c.lock.Unlock()

	return c.now
}

// Set moves c to timestamp t, which may lie
// before the current reading.
func (c *ManualClock) Set(t Timestamp) {

	c.lock.Lock()
	c.now = t
	c.lock.Unlock()
}

// Advance moves c forward by d and returns
// the new reading.
func (c *ManualClock) Advance(d Timestamp) Timestamp {

	c.lock.Lock()
	defer c.lock.Unlock()

	c.now += d

	return c.now
}

// Tick returns a Clock that advances c by one
// before every reading, so that consecutive
// operations get strictly increasing timestamps.
func (c *ManualClock) Tick() Clock {

	return ClockFunc(func() Timestamp {
		return c.Advance(1)
	})
}
