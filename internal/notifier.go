package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	Equal          Equality
	Distinct       bool
	CancelOnRevert bool
	WeakListeners  bool
	DebugPanics    bool

	Loop     Microtasker
	Observer Observer

	// passed to the observer with every event
	Context context.Context
}

// Notifier is a value cell whose writes within one turn are delivered to its
// listeners as a single deferred dispatch.
type Notifier struct {
	id string

	value any
	// value before the first write of the current window
	oldValue any

	equal          Equality
	distinct       bool
	cancelOnRevert bool
	debugPanics    bool

	loop     Microtasker
	observer Observer
	ctx      context.Context

	scheduler *Scheduler
	registry  *Registry
}

func NewNotifier(initial any, cfg Config) *Notifier {
	n := &Notifier{
		id:    uuid.Must(uuid.NewV7()).String(),
		value: initial,

		equal:          cfg.Equal,
		distinct:       cfg.Distinct,
		cancelOnRevert: cfg.CancelOnRevert,
		debugPanics:    cfg.DebugPanics,

		loop:     cfg.Loop,
		observer: cfg.Observer,
		ctx:      cfg.Context,

		scheduler: NewScheduler(),
		registry:  NewRegistry(cfg.WeakListeners),
	}

	if n.equal == nil {
		n.equal = DefaultEqual
	}
	if n.loop == nil {
		n.loop = GetLoop()
	}
	if n.observer == nil {
		n.observer = NewSlogObserver(nil)
	}
	if n.ctx == nil {
		n.ctx = context.Background()
	}

	return n
}

func (n *Notifier) ID() string { return n.id }

func (n *Notifier) Value() any { return n.value }

func (n *Notifier) Write(v any) {
	if n.scheduler.Disposed() {
		return
	}

	if n.equal(n.value, v) {
		return
	}

	if !n.scheduler.Arm() {
		n.value = v
		n.emit(Event{Type: EventWriteCoalesced})
		return
	}

	n.oldValue = n.value
	n.value = v
	n.emit(Event{Type: EventWriteArmed})

	n.loop.QueueMicrotask(n.flush)
}

func (n *Notifier) AddListener(l *Listener) {
	if l == nil || n.scheduler.Disposed() {
		return
	}

	n.registry.Add(l)
}

func (n *Notifier) RemoveListener(l *Listener) {
	if l == nil || n.scheduler.Disposed() {
		return
	}

	n.registry.Remove(l)
}

// Dispose is terminal and idempotent. A dispatch in flight stops before its
// next listener and clears the registry when it finishes.
func (n *Notifier) Dispose() {
	if !n.scheduler.Dispose() {
		return
	}

	n.oldValue = nil
	if !n.scheduler.dispatching {
		n.registry.Clear()
	}

	n.emit(Event{Type: EventDisposed})
}

func (n *Notifier) Listeners() []*Listener {
	live, reclaimed := n.registry.Live()
	if reclaimed > 0 {
		n.emit(Event{Type: EventListenerReclaimed, Listeners: reclaimed})
	}

	return live
}

func (n *Notifier) Pending() bool     { return n.scheduler.Pending() }
func (n *Notifier) Dispatching() bool { return n.scheduler.Dispatching() }
func (n *Notifier) Disposed() bool    { return n.scheduler.Disposed() }
func (n *Notifier) State() State      { return n.scheduler.State() }
func (n *Notifier) Dispatches() int   { return n.scheduler.Time() }

// flush is the queued microtask.
func (n *Notifier) flush() {
	if !n.scheduler.Fire() {
		return
	}

	old := n.oldValue
	n.oldValue = nil

	if n.cancelOnRevert && n.equal(n.value, old) {
		n.emit(Event{Type: EventDispatchReverted})
		return
	}

	n.scheduler.Run(n.dispatch)
}

func (n *Notifier) dispatch() {
	snapshot := n.registry.BeginDispatch()
	invoked := 0

	defer func() {
		reclaimed := n.registry.EndDispatch(n.scheduler.Disposed())

		n.emit(Event{Type: EventDispatchEnd, Listeners: len(snapshot), Invoked: invoked})
		if reclaimed > 0 {
			n.emit(Event{Type: EventListenerReclaimed, Listeners: reclaimed})
		}
	}()

	n.emit(Event{Type: EventDispatchStart, Listeners: len(snapshot)})

	var seen map[*Listener]struct{}
	if n.distinct {
		seen = make(map[*Listener]struct{}, len(snapshot))
	}

	for _, l := range snapshot {
		if n.scheduler.Disposed() {
			break
		}

		if seen != nil {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
		}

		invoked++
		guard(l, n.id, n.debugPanics, n.reportPanic)
	}
}

func (n *Notifier) reportPanic(err *ListenerError) {
	n.emit(Event{Type: EventListenerPanic, ListenerID: err.ListenerID, Err: err})
}

func (n *Notifier) emit(event Event) {
	event.NotifierID = n.id
	event.Timestamp = time.Now()
	if event.Level == 0 {
		event.Level = eventLevels[event.Type]
	}

	n.observer.OnEvent(n.ctx, event)
}
