package scheduler

import (
	"sync"
	"time"
)

// Manual is a virtual clock. Nothing fires until Advance is called; due
// callbacks then run on the caller's goroutine in (due time, schedule order).
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	at        time.Duration
	seq       uint64
	fn        func()
	cancelled bool
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) Schedule(delay time.Duration, fn func()) Cancel {
	if delay < 0 {
		delay = 0
	}

	m.mu.Lock()
	m.seq++
	t := &manualTask{at: m.now + delay, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		t.cancelled = true
		m.removeLocked(t)
	}
}

// Advance moves the clock forward by d, running every callback that becomes
// due, including callbacks scheduled by callbacks within the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.removeLocked(next)
		m.now = next.at
		m.mu.Unlock()

		next.fn()
	}
}

// Now reports the virtual time elapsed since the clock was created.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending reports how many callbacks are scheduled and not cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *Manual) nextDueLocked(target time.Duration) *manualTask {
	var best *manualTask
	for _, t := range m.tasks {
		if t.cancelled || t.at > target {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (m *Manual) removeLocked(t *manualTask) {
	for i, cur := range m.tasks {
		if cur == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return
		}
	}
}
