//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"errors"

	"github.com/obinnaokechukwu/inspector/internal/translate"
)

// Common errors
var (
	// ErrUnsupported is returned when the loaded runtime lacks an entry point.
	ErrUnsupported = errors.New("objc: operation not supported by this runtime")

	// ErrNullHandle is returned when the runtime hands back NULL where it
	// promised a handle, such as inside a counted list.
	ErrNullHandle = errors.New("objc: runtime returned a NULL handle")

	// ErrConsumed is returned by a builder after Register or Dispose.
	ErrConsumed = errors.New("objc: builder already registered or disposed")

	// ErrInvalidIMP is returned when a Go function cannot back a method.
	ErrInvalidIMP = errors.New("objc: invalid method implementation")
)

// IsDecodeError reports whether err came from a runtime string that is not
// valid UTF-8.
func IsDecodeError(err error) bool {
	var de *translate.DecodeError
	return errors.As(err, &de)
}

// ElementIndex returns the index of the list element that failed to
// translate, or -1 if err is not a list element failure.
func ElementIndex(err error) int {
	var ee *translate.ElementError
	if errors.As(err, &ee) {
		return ee.Index
	}
	return -1
}
