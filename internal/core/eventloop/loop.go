// Package eventloop defines the single execution context the presenter runs on.
//
// Every piece of presenter state is read and written from one goroutine.
// Timers and the completion of off-loop work are not run where they fire;
// they are handed back to the loop and run there in arrival order.
package eventloop

import (
	"sync"
	"time"
)

// Loop schedules work onto a single execution context.
type Loop interface {
	// AfterFunc runs fn on the loop once d has elapsed. The returned stop
	// function reports whether the call prevented fn from being queued.
	AfterFunc(d time.Duration, fn func()) (stop func() bool)

	// Go runs work off the loop. If work returns a non-nil continuation it
	// is run on the loop afterwards.
	Go(work func() func())
}

// Queue is a Loop whose callbacks are collected in a FIFO and drained by
// the owner of the execution context (the TUI's Update goroutine).
type Queue struct {
	mu      sync.Mutex
	pending []func()
	signal  chan struct{}
}

var _ Loop = (*Queue)(nil)

// NewQueue constructs an empty queue.
func NewQueue() *Queue {
	return &Queue{
		pending: make([]func(), 0),
		signal:  make(chan struct{}, 1),
	}
}

// Post appends fn and emits a non-blocking drain signal. Safe for use from
// any goroutine.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}

	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// AfterFunc implements Loop.
func (q *Queue) AfterFunc(d time.Duration, fn func()) func() bool {
	t := time.AfterFunc(d, func() { q.Post(fn) })
	return t.Stop
}

// Go implements Loop.
func (q *Queue) Go(work func() func()) {
	go func() {
		if next := work(); next != nil {
			q.Post(next)
		}
	}()
}

// Signal returns a channel that receives a value whenever callbacks are
// waiting to be drained. Several posts may coalesce into one signal.
func (q *Queue) Signal() <-chan struct{} {
	return q.signal
}

// Drain returns all queued callbacks and clears the queue.
func (q *Queue) Drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}

	out := make([]func(), len(q.pending))
	copy(out, q.pending)
	q.pending = q.pending[:0]
	return out
}

// RunPending drains the queue and runs every callback in order. It must
// only be called from the loop's own goroutine.
func (q *Queue) RunPending() int {
	fns := q.Drain()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
