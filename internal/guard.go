package internal

import (
	"fmt"
	"runtime/debug"
)

// ListenerError is a panic recovered from a listener during a dispatch.
type ListenerError struct {
	NotifierID string
	ListenerID uint64

	// the value passed to panic
	Recovered any
	Stack     []byte
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("coalesce: listener %d of notifier %s panicked: %v", e.ListenerID, e.NotifierID, e.Recovered)
}

func (e *ListenerError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}

	return nil
}

// guard calls l and hands any panic to catch. With rethrow the panic keeps
// unwinding after catch returns.
func guard(l *Listener, notifierID string, rethrow bool, catch func(*ListenerError)) {
	defer func() {
		if r := recover(); r != nil {
			catch(&ListenerError{
				NotifierID: notifierID,
				ListenerID: l.id,
				Recovered:  r,
				Stack:      debug.Stack(),
			})

			if rethrow {
				panic(r)
			}
		}
	}()

	l.call()
}
