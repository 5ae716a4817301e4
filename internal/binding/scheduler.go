package binding

import (
	"sync"
)

// Scheduler defers work to a later turn of the UI loop.
type Scheduler interface {
	Defer(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Defer implements Scheduler.
func (f SchedulerFunc) Defer(fn func()) {
	f(fn)
}

// Queue is a Scheduler that holds deferred work until Flush. It stands in
// for the UI loop wherever the caller drives the turns itself.
type Queue struct {
	mu      sync.Mutex
	pending []func()
}

// Defer implements Scheduler.
func (q *Queue) Defer(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, fn)
}

// Len returns the number of pending functions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs the functions pending when it was called, in order, and
// returns how many ran. Work deferred while flushing waits for the next
// Flush, like a macrotask queued during a turn.
func (q *Queue) Flush() int {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}
