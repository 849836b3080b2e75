//go:build !ios && !android && (amd64 || arm64)

package translate

import "sync"

// Lazy holds a fact that is computed on first use and never again.
//
// Concurrent first callers block until the single computation finishes and
// then all observe its value and error. An error is cached like a value:
// the facts stored here are immutable, so a failed read would fail again.
//
// The zero value is ready to use. A Lazy must not be copied after first use.
type Lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

// Get returns the cached fact, computing it with f on the first call.
func (l *Lazy[T]) Get(f func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.val, l.err = f()
	})
	return l.val, l.err
}

// Value is Get for facts that cannot fail.
func (l *Lazy[T]) Value(f func() T) T {
	v, _ := l.Get(func() (T, error) { return f(), nil })
	return v
}
