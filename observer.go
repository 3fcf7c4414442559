package coalesce

import (
	"log/slog"

	"github.com/AnatoleLucet/coalesce/internal"
)

// Observer receives notifier events. Listener panics arrive as
// EventListenerPanic with a *ListenerError.
type Observer = internal.Observer

type Event = internal.Event

type EventType = internal.EventType

const (
	EventWriteArmed        = internal.EventWriteArmed
	EventWriteCoalesced    = internal.EventWriteCoalesced
	EventDispatchStart     = internal.EventDispatchStart
	EventDispatchEnd       = internal.EventDispatchEnd
	EventDispatchReverted  = internal.EventDispatchReverted
	EventListenerPanic     = internal.EventListenerPanic
	EventListenerReclaimed = internal.EventListenerReclaimed
	EventDisposed          = internal.EventDisposed
)

// Level is an event severity aligned with OTel SeverityNumber ranges.
type Level = internal.Level

const (
	LevelVerbose = internal.LevelVerbose
	LevelInfo    = internal.LevelInfo
	LevelWarning = internal.LevelWarning
	LevelError   = internal.LevelError
)

type NoOpObserver = internal.NoOpObserver

type MultiObserver = internal.MultiObserver

// NewMultiObserver forwards events to every non-nil observer.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	return internal.NewMultiObserver(observers...)
}

type SlogObserver = internal.SlogObserver

// NewSlogObserver logs events to logger, or to slog.Default() when nil.
// This is what notifiers use when no observer is configured.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return internal.NewSlogObserver(logger)
}
