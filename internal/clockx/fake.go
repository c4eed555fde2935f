package clockx

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock. Callbacks fire synchronously on the
// goroutine calling Advance, in deadline order (ties in scheduling order).
// Timers scheduled by a callback during Advance fire in the same call if
// their deadline falls inside the advanced window.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	clock *Fake
	at    time.Time
	seq   uint64
	f     func()
}

// NewFake returns a Fake clock set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fake) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &fakeTimer{clock: c, at: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Pending reports the number of scheduled, not yet fired or stopped timers.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves the clock forward by d, firing every timer that comes due.
// The clock reads the deadline of each timer while its callback runs.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.popDueLocked(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.mu.Unlock()

		next.f()
	}
}

// popDueLocked removes and returns the earliest timer due at or before
// target, or nil. c.mu must be held.
func (c *Fake) popDueLocked(target time.Time) *fakeTimer {
	idx := -1
	for i, t := range c.timers {
		if t.at.After(target) {
			continue
		}
		if idx == -1 || t.at.Before(c.timers[idx].at) ||
			(t.at.Equal(c.timers[idx].at) && t.seq < c.timers[idx].seq) {
			idx = i
		}
	}
	if idx == -1 {
		return nil
	}
	t := c.timers[idx]
	c.timers = append(c.timers[:idx], c.timers[idx+1:]...)
	return t
}

func (t *fakeTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}
