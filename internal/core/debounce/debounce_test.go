package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hay-kot/jtl/internal/core/eventloop/looptest"
)

const delay = 500 * time.Millisecond

func TestTimer_OnlyLastScheduleRuns(t *testing.T) {
	loop := looptest.New()
	timer := New(loop)

	var ran []int
	for i := range 5 {
		timer.Schedule(delay, func() { ran = append(ran, i) })
		loop.Advance(100 * time.Millisecond)
	}

	assert.Empty(t, ran, "nothing settles while edits keep arriving")
	assert.Equal(t, 1, loop.PendingTimers())

	loop.Advance(delay)
	assert.Equal(t, []int{4}, ran)
	assert.False(t, timer.Pending())
}

func TestTimer_FiresAfterQuiescence(t *testing.T) {
	loop := looptest.New()
	timer := New(loop)

	fired := 0
	timer.Schedule(delay, func() { fired++ })

	loop.Advance(delay - time.Millisecond)
	assert.Equal(t, 0, fired)

	loop.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)

	loop.Advance(time.Hour)
	assert.Equal(t, 1, fired, "an action runs at most once")
}

func TestTimer_CancelIfPending(t *testing.T) {
	loop := looptest.New()
	timer := New(loop)

	assert.False(t, timer.CancelIfPending(), "nothing to cancel yet")

	fired := false
	timer.Schedule(delay, func() { fired = true })
	assert.True(t, timer.Pending())
	assert.True(t, timer.CancelIfPending())
	assert.False(t, timer.Pending())

	loop.Advance(time.Hour)
	assert.False(t, fired)
}

// staleLoop fires timers even after they were stopped, the way a real
// timer can fire and queue its callback just before Stop is called.
type staleLoop struct {
	fns []func()
}

func (s *staleLoop) AfterFunc(_ time.Duration, fn func()) func() bool {
	s.fns = append(s.fns, fn)
	return func() bool { return false }
}

func (s *staleLoop) Go(work func() func()) {}

func TestTimer_StaleCallbackIsDropped(t *testing.T) {
	loop := &staleLoop{}
	timer := New(loop)

	var ran []string
	timer.Schedule(delay, func() { ran = append(ran, "old") })
	timer.Schedule(delay, func() { ran = append(ran, "new") })

	for _, fn := range loop.fns {
		fn()
	}

	assert.Equal(t, []string{"new"}, ran)
}

func TestTimer_IndependentInstances(t *testing.T) {
	loop := looptest.New()
	first, second := New(loop), New(loop)

	var ran []string
	first.Schedule(delay, func() { ran = append(ran, "first") })
	second.Schedule(delay, func() { ran = append(ran, "second") })
	first.CancelIfPending()

	loop.Advance(delay)
	assert.Equal(t, []string{"second"}, ran)
}
