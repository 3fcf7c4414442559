package coalesce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCancelOnRevert(t *testing.T) {
	t.Run("skips a window that reverted", func(t *testing.T) {
		calls := 0
		loop := NewLoop()
		obs := &captureObserver{}

		n := New(0, WithLoop[int](loop), WithObserver[int](obs), CancelOnRevert[int]())
		n.AddListener(NewListener(func() { calls++ }))

		n.Write(1)
		n.Write(0)
		loop.Flush()

		assert.Equal(t, 0, calls)
		assert.Equal(t, 0, n.Read())
		assert.Equal(t, 0, n.Dispatches())
		assert.Equal(t, StateIdle, n.State())
		assert.Len(t, obs.ofType(EventDispatchReverted), 1)
	})

	t.Run("dispatches when the window ends elsewhere", func(t *testing.T) {
		calls := 0
		loop := NewLoop()

		n := New(0, quiet(loop, CancelOnRevert[int]())...)
		n.AddListener(NewListener(func() { calls++ }))

		n.Write(1)
		n.Write(0)
		n.Write(2)
		loop.Flush()

		assert.Equal(t, 1, calls)
		assert.Equal(t, 2, n.Read())
	})

	t.Run("next window compares against its own start", func(t *testing.T) {
		calls := 0
		loop := NewLoop()

		n := New(0, quiet(loop, CancelOnRevert[int]())...)
		n.AddListener(NewListener(func() { calls++ }))

		loop.Turn(func() { n.Write(5) })
		assert.Equal(t, 1, calls)

		loop.Turn(func() {
			n.Write(6)
			n.Write(5)
		})
		assert.Equal(t, 1, calls)

		loop.Turn(func() {
			n.Write(6)
			n.Write(0)
		})
		assert.Equal(t, 2, calls)
	})

	t.Run("disabled by default", func(t *testing.T) {
		calls := 0
		loop := NewLoop()

		n := New(0, quiet[int](loop)...)
		n.AddListener(NewListener(func() { calls++ }))

		n.Write(1)
		n.Write(0)
		loop.Flush()

		assert.Equal(t, 1, calls)
	})

	t.Run("uses the custom equality", func(t *testing.T) {
		calls := 0
		loop := NewLoop()

		n := New("go", quiet(loop,
			CancelOnRevert[string](),
			WithEquality(func(a, b string) bool { return len(a) == len(b) }),
		)...)
		n.AddListener(NewListener(func() { calls++ }))

		n.Write("rust")
		n.Write("js")
		loop.Flush()

		assert.Equal(t, 0, calls)
		assert.Equal(t, "js", n.Read())
	})
}
