package coalesce

import "github.com/AnatoleLucet/coalesce/internal"

// Microtasker queues work to run once the current synchronous turn has
// unwound, before any other deferred work.
type Microtasker = internal.Microtasker

// Loop is a cooperative single-goroutine runtime with a microtask queue and a
// macrotask queue. It is not safe for concurrent use.
type Loop = internal.Loop

// NewLoop creates a loop that is not tied to any goroutine.
func NewLoop() *Loop {
	return internal.NewLoop()
}

// CurrentLoop returns the loop of the calling goroutine, creating it on first
// use.
func CurrentLoop() *Loop {
	return internal.GetLoop()
}

// ReleaseLoop forgets the calling goroutine's loop, dropping anything still
// queued on it. Call it before a goroutine that used notifiers exits.
func ReleaseLoop() {
	internal.ReleaseLoop()
}

// Turn runs fn on the current goroutine's loop and drains microtasks when the
// outermost turn returns.
func Turn(fn func()) {
	internal.GetLoop().Turn(fn)
}

// Flush drains the current goroutine's microtasks now.
func Flush() {
	internal.GetLoop().Flush()
}

func QueueMicrotask(fn func()) {
	internal.GetLoop().QueueMicrotask(fn)
}

// Post queues a macrotask on the current goroutine's loop.
func Post(fn func()) {
	internal.GetLoop().Post(fn)
}

// RunUntilIdle runs the current goroutine's loop until both queues are empty.
func RunUntilIdle() {
	internal.GetLoop().RunUntilIdle()
}
