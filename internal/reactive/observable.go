// Package reactive implements the observable runtime that bindings drive:
// writable observables, computed cells that re-evaluate when the values they
// read change, and disposal scoped to an element lifetime.
//
// The runtime is NOT goroutine-safe. Dependency tracking is process-wide, so
// every observable, computed cell and the code reading them must be confined
// to the UI loop goroutine (see internal/uiloop).
package reactive

import (
	"slices"
)

// Subscribable is a readable reactive value. Get registers the value as a
// dependency of the computed cell currently evaluating, Peek does not.
type Subscribable interface {
	Get() any
	Peek() any
	Subscribe(fn func(value any)) (unsubscribe func())
}

// Writable is a Subscribable that can be assigned.
type Writable interface {
	Subscribable
	Set(value any)
}

// Observable is a writable reactive value cell.
//
// By default every Set notifies subscribers, even when the value is
// unchanged. Use WithEquality to suppress notifications for equal writes.
type Observable struct {
	value any
	equal func(a, b any) bool
	subs  subscribers
}

// ObservableOption configures an Observable.
type ObservableOption func(*Observable)

// WithEquality makes Set a no-op whenever equal(old, new) reports true.
func WithEquality(equal func(a, b any) bool) ObservableOption {
	return func(o *Observable) {
		o.equal = equal
	}
}

// NewObservable creates an observable holding initial.
func NewObservable(initial any, opts ...ObservableOption) *Observable {
	o := &Observable{value: initial}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Get returns the current value, registering a dependency.
func (o *Observable) Get() any {
	registerDependency(o)
	return o.value
}

// Peek returns the current value without registering a dependency.
func (o *Observable) Peek() any {
	return o.value
}

// Set assigns value and notifies subscribers.
func (o *Observable) Set(value any) {
	if o.equal != nil && o.equal(o.value, value) {
		return
	}
	o.value = value
	o.subs.notify(value)
}

// Notify re-publishes the current value to subscribers, for values mutated
// in place.
func (o *Observable) Notify() {
	o.subs.notify(o.value)
}

// Subscribe registers fn to be called after every notification.
func (o *Observable) Subscribe(fn func(value any)) func() {
	return o.subs.add(fn)
}

// SubscriberCount returns the number of live subscriptions.
func (o *Observable) SubscriberCount() int {
	return o.subs.len()
}

type subscription struct {
	fn       func(any)
	disposed bool
}

type subscribers struct {
	list []*subscription
}

func (s *subscribers) add(fn func(any)) func() {
	sub := &subscription{fn: fn}
	s.list = append(s.list, sub)
	return func() {
		if sub.disposed {
			return
		}
		sub.disposed = true
		s.list = slices.DeleteFunc(s.list, func(v *subscription) bool { return v == sub })
	}
}

func (s *subscribers) notify(value any) {
	// subscribers may unsubscribe (or subscribe) while being notified
	for _, sub := range slices.Clone(s.list) {
		if !sub.disposed {
			sub.fn(value)
		}
	}
}

func (s *subscribers) len() int {
	return len(s.list)
}

// IsObservable reports whether v is a reactive value.
func IsObservable(v any) bool {
	_, ok := v.(Subscribable)
	return ok
}

// IsWritable reports whether v is a reactive value that can be assigned.
func IsWritable(v any) bool {
	_, ok := v.(Writable)
	return ok
}

// Unwrap returns the current value of v if it is reactive, otherwise v.
// Reading through Unwrap registers a dependency.
func Unwrap(v any) any {
	if s, ok := v.(Subscribable); ok {
		return s.Get()
	}
	return v
}
