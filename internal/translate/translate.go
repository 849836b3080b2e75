//go:build !ios && !android && (amd64 || arm64)

// Package translate converts raw buffers and C strings handed out by the
// Objective-C runtime into owned Go values.
//
// Every routine here takes the release function explicitly. A buffer or
// string that the caller owns is released exactly once, after its contents
// have been copied out, on every exit path including a panicking wrap
// callback. Nothing returned by this package aliases runtime memory.
package translate

import (
	"unsafe"
)

// Freer releases memory allocated by the runtime on behalf of the caller.
// In production this is libc free.
type Freer func(unsafe.Pointer)

// List copies count elements of type E starting at base, wrapping each one
// into a T. Element order is preserved.
//
// A nil base means the runtime declared nothing: List returns nil without
// releasing anything. Any other base is released exactly once, even when
// count is zero or wrap fails. List never reads past count, whatever the
// buffer holds beyond it.
//
// The first element that wrap rejects aborts the walk with an *ElementError.
func List[E, T any](base unsafe.Pointer, count uint32, free Freer, wrap func(E) (T, error)) ([]T, error) {
	if base == nil {
		return nil, nil
	}
	defer free(base)

	if count == 0 {
		return nil, nil
	}

	elems := unsafe.Slice((*E)(base), count)
	out := make([]T, 0, count)
	for i := range elems {
		v, err := wrap(elems[i])
		if err != nil {
			return nil, &ElementError{Index: i, Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

// Terminated is the sentinel form of List: it walks from base until it finds
// the zero value of E. The sentinel itself is not wrapped.
//
// A nil free leaves the buffer alone, for lists the runtime keeps.
func Terminated[E comparable, T any](base unsafe.Pointer, free Freer, wrap func(E) (T, error)) ([]T, error) {
	if base == nil {
		return nil, nil
	}
	if free != nil {
		defer free(base)
	}

	n := Count[E](base)
	if n == 0 {
		return nil, nil
	}
	elems := unsafe.Slice((*E)(base), n)
	out := make([]T, 0, n)
	for i, e := range elems {
		v, err := wrap(e)
		if err != nil {
			return nil, &ElementError{Index: i, Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

// Count walks a sentinel-terminated buffer and reports how many elements
// precede the sentinel. The buffer is not released.
func Count[E comparable](base unsafe.Pointer) int {
	if base == nil {
		return 0
	}
	var zero E
	size := unsafe.Sizeof(zero)
	n := 0
	for *(*E)(unsafe.Add(base, uintptr(n)*size)) != zero {
		n++
	}
	return n
}
