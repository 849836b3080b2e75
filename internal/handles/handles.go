//go:build !ios && !android && (amd64 || arm64)

// Package handles keeps Go values reachable while the Objective-C runtime
// holds a raw pointer that stands for them.
//
// Function pointers minted by purego.NewCallback for method implementations
// have no room for a Go reference. Binding the original Go callable to the
// pointer keeps it alive for the life of the process and lets the wrapper
// hand the callable back (IMP.Func) without ever introspecting it.
package handles

import (
	"sync"
)

var (
	mu      sync.RWMutex
	handles = make(map[uintptr]any)
)

// Bind associates v with ptr. A later Bind on the same ptr replaces v.
// ptr must be non-zero.
//
// Thread-safe.
func Bind(ptr uintptr, v any) {
	if ptr == 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	handles[ptr] = v
}

// Lookup retrieves the Go value bound to ptr.
// Returns nil if nothing is bound.
//
// Thread-safe.
func Lookup(ptr uintptr) any {
	mu.RLock()
	defer mu.RUnlock()
	return handles[ptr]
}

// Unbind removes the binding for ptr and reports whether one existed.
//
// Thread-safe.
func Unbind(ptr uintptr) bool {
	mu.Lock()
	defer mu.Unlock()
	_, ok := handles[ptr]
	delete(handles, ptr)
	return ok
}

// Count returns the number of currently bound pointers.
// Useful for debugging and testing leaks.
//
// Thread-safe.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(handles)
}
