// Package looptest provides a deterministic eventloop.Loop for tests.
//
// Time only moves when Advance is called and off-loop work only runs when
// the test completes it, which makes interleavings such as "lookup A is
// still in flight while the user types B" reproducible.
package looptest

import (
	"sort"
	"time"

	"github.com/hay-kot/jtl/internal/core/eventloop"
)

type timer struct {
	id      int
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// Loop is a manual, single-goroutine event loop with a virtual clock.
type Loop struct {
	now    time.Duration
	nextID int
	timers []*timer
	jobs   []func() func()
}

var _ eventloop.Loop = (*Loop)(nil)

// New returns a loop whose clock starts at zero.
func New() *Loop {
	return &Loop{}
}

// Now returns the virtual time elapsed since the loop was created.
func (l *Loop) Now() time.Duration {
	return l.now
}

// AfterFunc implements eventloop.Loop.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() bool {
	l.nextID++
	t := &timer{id: l.nextID, at: l.now + d, fn: fn}
	l.timers = append(l.timers, t)

	return func() bool {
		if t.fired || t.stopped {
			return false
		}
		t.stopped = true
		return true
	}
}

// Go implements eventloop.Loop. The work is parked until the test calls
// Complete, CompleteNext or CompleteAll.
func (l *Loop) Go(work func() func()) {
	l.jobs = append(l.jobs, work)
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Timers scheduled by a firing timer are honoured if they fall due
// inside the window.
func (l *Loop) Advance(d time.Duration) {
	target := l.now + d
	for {
		next := l.nextDue(target)
		if next == nil {
			break
		}
		l.now = next.at
		next.fired = true
		next.fn()
	}
	l.now = target
	l.compact()
}

// PendingTimers returns the number of live (not stopped, not fired) timers.
func (l *Loop) PendingTimers() int {
	n := 0
	for _, t := range l.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// PendingJobs returns the number of parked off-loop jobs.
func (l *Loop) PendingJobs() int {
	return len(l.jobs)
}

// Complete runs the i-th parked job (in issue order) and then its
// continuation, as if its result had just arrived back on the loop.
func (l *Loop) Complete(i int) {
	work := l.jobs[i]
	l.jobs = append(l.jobs[:i:i], l.jobs[i+1:]...)
	if next := work(); next != nil {
		next()
	}
}

// CompleteNext completes the oldest parked job.
func (l *Loop) CompleteNext() {
	l.Complete(0)
}

// CompleteAll completes parked jobs oldest first, including any parked
// while completing.
func (l *Loop) CompleteAll() {
	for len(l.jobs) > 0 {
		l.Complete(0)
	}
}

func (l *Loop) nextDue(target time.Duration) *timer {
	var due []*timer
	for _, t := range l.timers {
		if !t.fired && !t.stopped && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].id < due[j].id
		}
		return due[i].at < due[j].at
	})
	return due[0]
}

func (l *Loop) compact() {
	live := l.timers[:0]
	for _, t := range l.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	l.timers = live
}
