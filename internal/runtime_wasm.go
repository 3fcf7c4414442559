//go:build wasm

package internal

import "sync"

var once sync.Once
var globalLoop *Loop

func GetLoop() *Loop {
	once.Do(func() {
		globalLoop = NewLoop()
	})

	return globalLoop
}

// ReleaseLoop is a no-op, the wasm runtime has a single loop.
func ReleaseLoop() {}
