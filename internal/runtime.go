package internal

import (
	"log/slog"
)

// a drain running this many microtasks is most likely a listener feeding
// writes back into its own notifier
const microtaskWarnThreshold = 10000

// Microtasker queues work to run after the current synchronous turn and
// before any macrotask.
type Microtasker interface {
	QueueMicrotask(fn func())
}

// Loop is a cooperative single-goroutine runtime: macrotasks run one turn at
// a time and the microtask queue is drained to empty at the end of each turn.
type Loop struct {
	batcher    *Batcher
	microtasks *TaskQueue
	macrotasks *TaskQueue

	draining bool
}

func NewLoop() *Loop {
	return &Loop{
		batcher:    NewBatcher(),
		microtasks: NewTaskQueue(),
		macrotasks: NewTaskQueue(),
	}
}

func (l *Loop) QueueMicrotask(fn func()) {
	l.microtasks.Enqueue(fn)
}

// Post queues a macrotask.
func (l *Loop) Post(fn func()) {
	l.macrotasks.Enqueue(fn)
}

// Turn runs fn synchronously. Microtasks are drained once the outermost turn
// returns.
func (l *Loop) Turn(fn func()) {
	l.batcher.Batch(fn, l.Flush)
}

func (l *Loop) InTurn() bool {
	return l.batcher.IsBatching()
}

// Flush drains the microtask queue, including microtasks queued by the ones
// it runs. It is a no-op when called from inside a drain.
func (l *Loop) Flush() {
	if l.draining {
		return
	}

	l.draining = true
	defer func() { l.draining = false }()

	executed := 0
	for {
		fn, ok := l.microtasks.Dequeue()
		if !ok {
			return
		}

		fn()

		executed++
		if executed == microtaskWarnThreshold {
			slog.Warn("coalesce: microtask drain exceeded threshold, possible feedback loop",
				slog.Int("executed", executed),
				slog.Int("queued", l.microtasks.Len()),
			)
		}
	}
}

// Step runs the oldest macrotask as a turn. It reports false when there was
// none.
func (l *Loop) Step() bool {
	fn, ok := l.macrotasks.Dequeue()
	if !ok {
		return false
	}

	l.Turn(fn)
	return true
}

// RunUntilIdle drains pending microtasks, then steps until no macrotask is
// left.
func (l *Loop) RunUntilIdle() {
	l.Flush()
	for l.Step() {
	}
}

func (l *Loop) Idle() bool {
	return l.microtasks.Len() == 0 && l.macrotasks.Len() == 0
}

// Microtasks returns the number of queued microtasks.
func (l *Loop) Microtasks() int { return l.microtasks.Len() }

// Macrotasks returns the number of queued macrotasks.
func (l *Loop) Macrotasks() int { return l.macrotasks.Len() }
