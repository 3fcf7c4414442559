//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var loops sync.Map

// GetLoop returns the loop owned by the calling goroutine.
func GetLoop() *Loop {
	gid := getGID()

	if l, ok := loops.Load(gid); ok {
		return l.(*Loop)
	}

	l := NewLoop()
	loops.Store(gid, l)
	return l
}

// ReleaseLoop forgets the calling goroutine's loop. Work still queued on it is
// dropped.
func ReleaseLoop() {
	loops.Delete(getGID())
}

func getGID() int64 {
	return goid.Get()
}
