package interview

import (
	"time"

	"github.com/yoockh/yoointerview/internal/scheduler"
)

type timerKind int

const (
	timerSettle timerKind = iota
	timerTransition
	timerAnswer
	timerQuestion
	timerRecording
	timerOverall
	timerJoin
	timerCount
)

// teardownOrder cancels pending one-shot delays first, then the repeating
// countdowns from the innermost outwards.
var teardownOrder = [...]timerKind{
	timerSettle,
	timerTransition,
	timerAnswer,
	timerQuestion,
	timerRecording,
	timerOverall,
	timerJoin,
}

func (k timerKind) String() string {
	switch k {
	case timerSettle:
		return "settle"
	case timerTransition:
		return "transition"
	case timerAnswer:
		return "answer"
	case timerQuestion:
		return "question"
	case timerRecording:
		return "recording"
	case timerOverall:
		return "overall"
	case timerJoin:
		return "join"
	default:
		return "unknown"
	}
}

const tick = time.Second

type timerSlot struct {
	armed  bool
	gen    uint64
	cancel scheduler.Cancel
}

// arm replaces any timer of the same kind. Must be called with s.mu held.
func (s *Session) arm(kind timerKind, delay time.Duration, fn func()) {
	s.disarm(kind)
	s.gen++
	gen := s.gen
	cancel := s.deps.Scheduler.Schedule(delay, func() { s.fire(kind, gen, fn) })
	s.timers[kind] = timerSlot{armed: true, gen: gen, cancel: cancel}
}

// disarm reports whether a timer of kind was armed. Must be called with s.mu
// held.
func (s *Session) disarm(kind timerKind) bool {
	slot := s.timers[kind]
	if !slot.armed {
		return false
	}
	slot.cancel()
	s.timers[kind] = timerSlot{}
	return true
}

func (s *Session) fire(kind timerKind, gen uint64, fn func()) {
	s.mu.Lock()
	slot := s.timers[kind]
	if !slot.armed || slot.gen != gen {
		s.mu.Unlock()
		return
	}
	s.timers[kind] = timerSlot{}
	fn()
	s.unlockAndFlush()
}

func (s *Session) teardown() {
	for _, kind := range teardownOrder {
		if s.disarm(kind) {
			s.log.WithField("timer", kind.String()).Debug("timer cancelled")
		}
	}
}

func (s *Session) armedTimers() int {
	n := 0
	for _, slot := range s.timers {
		if slot.armed {
			n++
		}
	}
	return n
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
