package internal

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatcher(t *testing.T) {
	t.Run("completes once at the outermost level", func(t *testing.T) {
		log := []string{}
		b := NewBatcher()
		done := func() { log = append(log, "complete") }

		b.Batch(func() {
			assert.True(t, b.IsBatching())
			b.Batch(func() { log = append(log, "inner") }, done)
			log = append(log, "outer")
		}, done)

		assert.Equal(t, []string{"inner", "outer", "complete"}, log)
		assert.False(t, b.IsBatching())
	})
}

func TestTaskQueue(t *testing.T) {
	t.Run("fifo", func(t *testing.T) {
		log := []string{}
		q := NewTaskQueue()
		q.Enqueue(func() { log = append(log, "a") })
		q.Enqueue(func() { log = append(log, "b") })

		assert.Equal(t, 2, q.Len())

		for fn, ok := q.Dequeue(); ok; fn, ok = q.Dequeue() {
			fn()
		}

		assert.Equal(t, []string{"a", "b"}, log)
		assert.Equal(t, 0, q.Len())
	})

	t.Run("stays bounded while refilled during a drain", func(t *testing.T) {
		q := NewTaskQueue()
		for range 8 {
			q.Enqueue(func() {})
		}

		for i := range 100000 {
			fn, ok := q.Dequeue()
			require.True(t, ok)
			fn()
			q.Enqueue(func() {})

			if i%1000 == 0 {
				assert.LessOrEqual(t, len(q.tasks), 2*compactMinHead+8)
			}
		}

		assert.Equal(t, 8, q.Len())
		assert.LessOrEqual(t, cap(q.tasks), 4*compactMinHead)
	})

	t.Run("keeps order across compaction", func(t *testing.T) {
		got := []int{}
		q := NewTaskQueue()
		next := 0
		push := func() {
			v := next
			next++
			q.Enqueue(func() { got = append(got, v) })
		}

		for range 3 * compactMinHead {
			push()
		}
		for fn, ok := q.Dequeue(); ok; fn, ok = q.Dequeue() {
			fn()
			if next < 10*compactMinHead {
				push()
			}
		}

		require.Len(t, got, 10*compactMinHead)
		for i, v := range got {
			assert.Equal(t, i, v)
		}
	})

	t.Run("reuses storage once empty", func(t *testing.T) {
		q := NewTaskQueue()
		q.Enqueue(func() {})
		q.Dequeue()
		_, ok := q.Dequeue()

		assert.False(t, ok)
		assert.Equal(t, 0, q.head)
		assert.Empty(t, q.tasks)
	})
}

func TestLoopDrainWarning(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	l := NewLoop()
	remaining := microtaskWarnThreshold + 5
	var tick func()
	tick = func() {
		remaining--
		if remaining > 0 {
			l.QueueMicrotask(tick)
		}
	}
	l.QueueMicrotask(tick)
	l.Flush()

	assert.Equal(t, 0, remaining)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "executed=10000")
}
