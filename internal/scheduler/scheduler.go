// Package scheduler abstracts delayed callbacks so that interview timers can
// run against the wall clock in production and a virtual clock in tests.
package scheduler

import (
	"sync"
	"time"
)

// Cancel stops a scheduled callback. Calling it more than once, or after the
// callback already ran, is a no-op.
type Cancel func()

type Scheduler interface {
	// Schedule runs fn once after delay and returns immediately.
	Schedule(delay time.Duration, fn func()) Cancel
}

// Realtime schedules callbacks with time.AfterFunc. Callbacks run on their
// own goroutine, so callers must synchronise the state they touch.
type Realtime struct{}

func NewRealtime() Realtime { return Realtime{} }

func (Realtime) Schedule(delay time.Duration, fn func()) Cancel {
	t := time.AfterFunc(delay, fn)
	var once sync.Once
	return func() {
		once.Do(func() { t.Stop() })
	}
}
