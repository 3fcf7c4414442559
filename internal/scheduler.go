package internal

// State is the position of a notifier's dispatch state machine.
type State int

const (
	StateIdle State = iota
	StatePending
	StateDispatching
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateDispatching:
		return "dispatching"
	case StateDisposed:
		return "disposed"
	}

	return "unknown"
}

type Scheduler struct {
	// incremented each time a dispatch loop completes
	clock int

	// a microtask is queued and has not run yet
	pending bool

	// the listener loop is running
	dispatching bool

	// terminal, overrides the other flags
	disposed bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		clock: 0,

		pending:     false,
		dispatching: false,
		disposed:    false,
	}
}

// Arm moves the scheduler to pending. It reports false when a dispatch is
// already pending for this window or the scheduler is disposed, in which case
// no new microtask must be queued.
func (s *Scheduler) Arm() bool {
	if s.disposed || s.pending {
		return false
	}

	s.pending = true
	return true
}

// Fire consumes the pending flag once the queued microtask runs and reports
// whether a dispatch may proceed.
func (s *Scheduler) Fire() bool {
	s.pending = false
	return !s.disposed
}

// Run executes fn as the dispatch loop. Nested runs are refused.
func (s *Scheduler) Run(fn func()) {
	if s.dispatching || s.disposed {
		return
	}

	s.dispatching = true
	defer func() {
		s.clock++
		s.dispatching = false
	}()

	fn()
}

// Dispose sets the terminal state. It reports false if already disposed.
func (s *Scheduler) Dispose() bool {
	if s.disposed {
		return false
	}

	s.disposed = true
	return true
}

func (s *Scheduler) Pending() bool     { return s.pending && !s.disposed }
func (s *Scheduler) Dispatching() bool { return s.dispatching && !s.disposed }
func (s *Scheduler) Disposed() bool    { return s.disposed }
func (s *Scheduler) Time() int         { return s.clock }

func (s *Scheduler) State() State {
	switch {
	case s.disposed:
		return StateDisposed
	case s.dispatching:
		return StateDispatching
	case s.pending:
		return StatePending
	}

	return StateIdle
}
