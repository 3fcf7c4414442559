package internal

import "sync/atomic"

var listenerIDs atomic.Uint64

// Listener is a registered callback. Its identity is its pointer; the id only
// labels it in diagnostics.
type Listener struct {
	id uint64
	fn func()
}

func NewListener(fn func()) *Listener {
	return &Listener{
		id: listenerIDs.Add(1),
		fn: fn,
	}
}

func (l *Listener) ID() uint64 { return l.id }

func (l *Listener) call() {
	if l.fn != nil {
		l.fn()
	}
}
