package internal

const compactMinHead = 64

// TaskQueue is a FIFO of deferred work.
type TaskQueue struct {
	tasks []func()
	head  int
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		tasks: make([]func(), 0),
	}
}

func (q *TaskQueue) Enqueue(fn func()) {
	q.tasks = append(q.tasks, fn)
}

// Dequeue pops the oldest task. Tasks enqueued while the queue is being
// drained are returned by later calls of the same drain.
func (q *TaskQueue) Dequeue() (func(), bool) {
	if q.head >= len(q.tasks) {
		q.tasks = q.tasks[:0]
		q.head = 0
		return nil, false
	}

	fn := q.tasks[q.head]
	// release the closure for the gc
	q.tasks[q.head] = nil
	q.head++

	if q.head >= compactMinHead && q.head*2 >= len(q.tasks) {
		q.compact()
	}

	return fn, true
}

// compact moves the unread tasks to the front so a queue that is refilled
// while it drains does not keep growing.
func (q *TaskQueue) compact() {
	n := copy(q.tasks, q.tasks[q.head:])
	clear(q.tasks[n:])
	q.tasks = q.tasks[:n]
	q.head = 0
}

func (q *TaskQueue) Len() int {
	return len(q.tasks) - q.head
}
