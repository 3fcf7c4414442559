package coalesce

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addTransient registers a listener the caller keeps no reference to.
//
//go:noinline
func addTransient(n *Notifier[int], fn func()) {
	n.AddListener(NewListener(fn))
}

func collect() {
	runtime.GC()
	runtime.GC()
}

func TestWeakListeners(t *testing.T) {
	t.Run("collected listener is dropped", func(t *testing.T) {
		kept, dropped := 0, 0
		loop := NewLoop()
		obs := &captureObserver{}

		n := New(0, WithLoop[int](loop), WithObserver[int](obs), WeakListeners[int]())
		keep := NewListener(func() { kept++ })
		n.AddListener(keep)
		addTransient(n, func() { dropped++ })

		require.Equal(t, 2, len(n.Listeners()))

		collect()

		assert.Equal(t, []*Listener{keep}, n.Listeners())
		assert.Len(t, obs.ofType(EventListenerReclaimed), 1)

		loop.Turn(func() { n.Write(1) })

		assert.Equal(t, 1, kept)
		assert.Equal(t, 0, dropped)
		runtime.KeepAlive(keep)
	})

	t.Run("dispatch skips and reconciles collected listeners", func(t *testing.T) {
		kept, dropped := 0, 0
		loop := NewLoop()
		obs := &captureObserver{}

		n := New(0, WithLoop[int](loop), WithObserver[int](obs), WeakListeners[int]())
		addTransient(n, func() { dropped++ })
		keep := NewListener(func() { kept++ })
		n.AddListener(keep)
		addTransient(n, func() { dropped++ })

		collect()

		loop.Turn(func() { n.Write(1) })

		assert.Equal(t, 1, kept)
		assert.Equal(t, 0, dropped)

		reclaimed := obs.ofType(EventListenerReclaimed)
		require.Len(t, reclaimed, 1)
		assert.Equal(t, 2, reclaimed[0].Listeners)

		end := obs.ofType(EventDispatchEnd)
		require.Len(t, end, 1)
		assert.Equal(t, 1, end[0].Listeners)

		assert.Equal(t, []*Listener{keep}, n.Listeners())
		runtime.KeepAlive(keep)
	})

	t.Run("reachable listener survives collection", func(t *testing.T) {
		calls := 0
		loop := NewLoop()

		n := New(0, quiet(loop, WeakListeners[int](), Distinct[int]())...)
		keep := NewListener(func() { calls++ })
		n.AddListener(keep)
		n.AddListener(keep)

		collect()

		loop.Turn(func() { n.Write(1) })

		assert.Equal(t, 1, calls)
		assert.Len(t, n.Listeners(), 2)

		n.RemoveListener(keep)
		n.RemoveListener(keep)
		assert.Empty(t, n.Listeners())
		runtime.KeepAlive(keep)
	})

	t.Run("strong mode keeps unreferenced listeners", func(t *testing.T) {
		calls := 0
		loop := NewLoop()

		n := New(0, quiet[int](loop)...)
		addTransient(n, func() { calls++ })

		collect()

		loop.Turn(func() { n.Write(1) })

		assert.Equal(t, 1, calls)
	})

	t.Run("subscription lives while its cancel func is held", func(t *testing.T) {
		got := []int{}
		loop := NewLoop()

		n := New(0, quiet(loop, WeakListeners[int]())...)
		_, cancel := n.Subscribe(func(v int) { got = append(got, v) })

		collect()
		loop.Turn(func() { n.Write(1) })

		cancel()
		loop.Turn(func() { n.Write(2) })

		assert.Equal(t, []int{1}, got)
	})
}
