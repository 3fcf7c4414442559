package coalesce

import (
	"context"

	"github.com/AnatoleLucet/coalesce/internal"
)

type config[T any] struct {
	internal.Config

	equal func(a, b T) bool
}

// Option configures a Notifier[T] at construction. Options that do not take a
// value of type T are instantiated explicitly, as in Distinct[int]().
type Option[T any] func(*config[T])

func applyOptions[T any](opts []Option[T]) internal.Config {
	var cfg config[T]
	for _, opt := range opts {
		opt(&cfg)
	}

	if equal := cfg.equal; equal != nil {
		cfg.Equal = func(a, b any) bool {
			return equal(as[T](a), as[T](b))
		}
	}

	return cfg.Config
}

// WithEquality replaces the default equality entirely. It decides both whether
// a write is a no-op and, with CancelOnRevert, whether a window reverted.
//
// Example:
//
//	parity := coalesce.New(0, coalesce.WithEquality(func(a, b int) bool {
//		return a%2 == b%2
//	}))
func WithEquality[T any](equal func(a, b T) bool) Option[T] {
	return func(c *config[T]) {
		c.equal = equal
	}
}

// Distinct calls each listener identity at most once per dispatch, however
// many times it is registered.
func Distinct[T any]() Option[T] {
	return func(c *config[T]) {
		c.Distinct = true
	}
}

// CancelOnRevert skips a dispatch when the value at dispatch time equals the
// value from before the window's first write.
func CancelOnRevert[T any]() Option[T] {
	return func(c *config[T]) {
		c.CancelOnRevert = true
	}
}

// WeakListeners holds listeners weakly. A listener that is no longer
// referenced anywhere else is dropped after the garbage collector reclaims it.
func WeakListeners[T any]() Option[T] {
	return func(c *config[T]) {
		c.WeakListeners = true
	}
}

// WithLoop schedules dispatches on m instead of the calling goroutine's loop.
func WithLoop[T any](m Microtasker) Option[T] {
	return func(c *config[T]) {
		c.Loop = m
	}
}

// WithObserver sends lifecycle events and listener panics to obs instead of
// slog.Default().
func WithObserver[T any](obs Observer) Option[T] {
	return func(c *config[T]) {
		c.Observer = obs
	}
}

// WithContext passes ctx to the observer with every event, so that dispatch
// spans and log records can be tied to the request or job owning the
// notifier. Only its values are used; cancellation does not dispose.
func WithContext[T any](ctx context.Context) Option[T] {
	return func(c *config[T]) {
		c.Context = ctx
	}
}

// DebugPanics re-raises a listener panic after reporting it, so a debugger or
// test sees it. The listeners after it in that dispatch do not run.
func DebugPanics[T any]() Option[T] {
	return func(c *config[T]) {
		c.DebugPanics = true
	}
}
