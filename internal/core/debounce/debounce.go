// Package debounce coalesces bursts of events into one delayed action.
package debounce

import (
	"time"

	"github.com/hay-kot/jtl/internal/core/eventloop"
)

// Timer is a single debounce slot. At most one action is live at a time:
// scheduling a new action cancels the previous one first.
//
// A Timer is not safe for concurrent use; it belongs to the goroutine that
// runs its loop.
type Timer struct {
	loop eventloop.Loop
	stop func() bool
	gen  uint64
}

// New creates a Timer that schedules onto loop.
func New(loop eventloop.Loop) *Timer {
	return &Timer{loop: loop}
}

// Schedule cancels any pending action and runs action after delay unless
// Schedule or CancelIfPending is called again first.
func (t *Timer) Schedule(delay time.Duration, action func()) {
	t.CancelIfPending()

	t.gen++
	gen := t.gen
	t.stop = t.loop.AfterFunc(delay, func() {
		// A stop can lose the race against a timer that already fired and
		// is queued on the loop; the generation check drops it.
		if gen != t.gen {
			return
		}
		t.stop = nil
		action()
	})
}

// CancelIfPending drops the pending action without running it. It reports
// whether an action was pending.
func (t *Timer) CancelIfPending() bool {
	if t.stop == nil {
		return false
	}
	t.stop()
	t.stop = nil
	t.gen++
	return true
}

// Pending reports whether an action is scheduled and has not yet run.
func (t *Timer) Pending() bool {
	return t.stop != nil
}
