package internal

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Level is an event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8)
	LevelInfo    Level = 9  // OTel INFO (9-12)
	LevelWarning Level = 13 // OTel WARN (13-16)
	LevelError   Level = 17 // OTel ERROR (17-20)
)

func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

type EventType string

const (
	EventWriteArmed        EventType = "notifier.write.armed"
	EventWriteCoalesced    EventType = "notifier.write.coalesced"
	EventDispatchStart     EventType = "notifier.dispatch.start"
	EventDispatchEnd       EventType = "notifier.dispatch.end"
	EventDispatchReverted  EventType = "notifier.dispatch.reverted"
	EventListenerPanic     EventType = "notifier.listener.panic"
	EventListenerReclaimed EventType = "notifier.listener.reclaimed"
	EventDisposed          EventType = "notifier.disposed"
)

var eventLevels = map[EventType]Level{
	EventWriteArmed:        LevelVerbose,
	EventWriteCoalesced:    LevelVerbose,
	EventDispatchStart:     LevelVerbose,
	EventDispatchEnd:       LevelVerbose,
	EventDispatchReverted:  LevelVerbose,
	EventListenerPanic:     LevelError,
	EventListenerReclaimed: LevelInfo,
	EventDisposed:          LevelInfo,
}

// Event is emitted by a notifier at each step of its lifecycle.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time

	NotifierID string
	// set on listener events
	ListenerID uint64

	// dispatch.start/end: snapshot size. listener.reclaimed: entries dropped.
	Listeners int
	// dispatch.end: listeners actually called
	Invoked int

	Err error
}

type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}

// MultiObserver fans events out to several observers.
type MultiObserver struct {
	observers []Observer
}

func NewMultiObserver(observers ...Observer) *MultiObserver {
	filtered := make([]Observer, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			filtered = append(filtered, obs)
		}
	}

	return &MultiObserver{observers: filtered}
}

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}

// SlogObserver logs events with the event type as message. A nil logger
// resolves to slog.Default() on every event.
type SlogObserver struct {
	logger *slog.Logger
}

func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	level := event.Level.SlogLevel()
	if !logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, 6)
	attrs = append(attrs, slog.String("notifier", event.NotifierID))

	if event.ListenerID != 0 {
		attrs = append(attrs, slog.Uint64("listener", event.ListenerID))
	}

	switch event.Type {
	case EventDispatchStart, EventListenerReclaimed:
		attrs = append(attrs, slog.Int("listeners", event.Listeners))
	case EventDispatchEnd:
		attrs = append(attrs, slog.Int("listeners", event.Listeners), slog.Int("invoked", event.Invoked))
	}

	if event.Err != nil {
		attrs = append(attrs, slog.Any("error", event.Err))

		var lerr *ListenerError
		if errors.As(event.Err, &lerr) {
			attrs = append(attrs,
				slog.Any("panic", lerr.Recovered),
				slog.String("stack", string(lerr.Stack)),
			)
		}
	}

	logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}
