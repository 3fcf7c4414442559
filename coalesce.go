// Package coalesce provides a notifier: an observable value cell that
// coalesces every write made during one turn of a cooperative loop into at
// most one deferred notification of its listeners.
//
// Listeners run in a microtask after the writing call stack has unwound, so a
// listener can never overwrite state that code further down the stack is still
// working with.
package coalesce

import "github.com/AnatoleLucet/coalesce/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Listener is a callback registered on a notifier. Its identity is the
// pointer: registering the same *Listener twice counts as two registrations
// of one identity.
type Listener = internal.Listener

// NewListener wraps fn in a new listener identity.
func NewListener(fn func()) *Listener {
	return internal.NewListener(fn)
}

// State is the dispatch state of a notifier.
type State = internal.State

const (
	StateIdle        = internal.StateIdle
	StatePending     = internal.StatePending
	StateDispatching = internal.StateDispatching
	StateDisposed    = internal.StateDisposed
)

// ListenerError is reported when a listener panics during a dispatch.
type ListenerError = internal.ListenerError

type Notifier[T any] struct {
	notifier *internal.Notifier
}

// New creates a notifier holding initial.
// Unless WithLoop is given, it schedules on the calling goroutine's loop.
func New[T any](initial T, opts ...Option[T]) *Notifier[T] {
	return &Notifier[T]{
		internal.NewNotifier(initial, applyOptions(opts)),
	}
}

// Read returns the latest written value, whether or not it has been
// dispatched yet.
func (n *Notifier[T]) Read() T {
	return as[T](n.notifier.Value())
}

// Write stores v. Unless v equals the current value, listeners are notified
// once in a later microtask, however many writes happen before it runs.
func (n *Notifier[T]) Write(v T) {
	n.notifier.Write(v)
}

// Update writes fn applied to the current value.
func (n *Notifier[T]) Update(fn func(T) T) {
	n.notifier.Write(fn(n.Read()))
}

// AddListener registers l. During a dispatch the registration takes effect
// once the dispatch has finished.
func (n *Notifier[T]) AddListener(l *Listener) { n.notifier.AddListener(l) }

// RemoveListener removes one registration of l.
func (n *Notifier[T]) RemoveListener(l *Listener) { n.notifier.RemoveListener(l) }

// Subscribe registers a listener that receives the value at dispatch time.
// It returns the listener and a func removing it. With WeakListeners the
// subscription lives as long as either return value is reachable.
func (n *Notifier[T]) Subscribe(fn func(T)) (*Listener, func()) {
	l := NewListener(func() { fn(n.Read()) })
	n.AddListener(l)

	return l, func() { n.RemoveListener(l) }
}

// Dispose stops all future notifications and drops the listeners. Calling it
// again is a no-op, and so are writes and listener changes after it.
func (n *Notifier[T]) Dispose() { n.notifier.Dispose() }

// Listeners returns a snapshot of the live registrations in dispatch order.
func (n *Notifier[T]) Listeners() []*Listener { return n.notifier.Listeners() }

func (n *Notifier[T]) Pending() bool     { return n.notifier.Pending() }
func (n *Notifier[T]) Dispatching() bool { return n.notifier.Dispatching() }
func (n *Notifier[T]) Disposed() bool    { return n.notifier.Disposed() }
func (n *Notifier[T]) State() State      { return n.notifier.State() }

// Dispatches returns how many dispatch loops have completed.
func (n *Notifier[T]) Dispatches() int { return n.notifier.Dispatches() }

// ID identifies the notifier in diagnostics.
func (n *Notifier[T]) ID() string { return n.notifier.ID() }
