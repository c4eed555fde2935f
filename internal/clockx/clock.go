// Package clockx abstracts the wall clock and one-shot timers so that
// time-driven state machines can be driven deterministically in tests.
package clockx

import "time"

// Timer is a scheduled callback that can be cancelled.
// *time.Timer satisfies it.
type Timer interface {
	// Stop prevents the callback from firing. It reports false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Clock provides the current time and schedules callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is the Clock backed by package time. Callbacks run on their own
// goroutine.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
