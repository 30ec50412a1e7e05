package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual()
	var got []string

	m.Schedule(3*time.Second, func() { got = append(got, "c") })
	m.Schedule(1*time.Second, func() { got = append(got, "a") })
	m.Schedule(1*time.Second, func() { got = append(got, "b") })

	m.Advance(2 * time.Second)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, m.Pending())

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, 3*time.Second, m.Now())
}

func TestManual_CancelPreventsFire(t *testing.T) {
	m := NewManual()
	fired := false
	cancel := m.Schedule(time.Second, func() { fired = true })

	cancel()
	cancel()
	m.Advance(5 * time.Second)

	assert.False(t, fired)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_ChainedCallbacksWithinWindow(t *testing.T) {
	m := NewManual()
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		if ticks < 10 {
			m.Schedule(time.Second, tick)
		}
	}
	m.Schedule(time.Second, tick)

	m.Advance(4 * time.Second)
	assert.Equal(t, 4, ticks)

	m.Advance(time.Minute)
	assert.Equal(t, 10, ticks)
	assert.Equal(t, 0, m.Pending())
}

func TestRealtime_ScheduleAndCancel(t *testing.T) {
	s := NewRealtime()

	var fired atomic.Int32
	done := make(chan struct{})
	s.Schedule(10*time.Millisecond, func() {
		fired.Add(1)
		close(done)
	})

	cancelled := s.Schedule(10*time.Millisecond, func() { fired.Add(100) })
	cancelled()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "callback did not fire")
	}
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}
