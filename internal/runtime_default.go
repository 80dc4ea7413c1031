//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the current goroutine's default runtime, creating it on
// first use.
func GetRuntime() *Runtime {
	gid := getGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime(RuntimeOptions{})
	runtimes.Store(gid, r)
	return r
}

// ReleaseRuntime forgets the current goroutine's default runtime.
func ReleaseRuntime() {
	runtimes.Delete(getGID())
}

func getGID() int64 {
	return goid.Get()
}
