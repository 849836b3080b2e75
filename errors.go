//go:build !ios && !android && (amd64 || arm64)

package inspector

import (
	"github.com/obinnaokechukwu/inspector/internal/bindings"
	"github.com/obinnaokechukwu/inspector/internal/translate"
	"github.com/obinnaokechukwu/inspector/objc"
	"github.com/obinnaokechukwu/inspector/typeenc"
)

// Common errors
var (
	// ErrNotLoaded indicates the runtime library is not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrLibraryNotFound indicates libobjc could not be located.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrUnsupported indicates the loaded runtime lacks an entry point.
	ErrUnsupported = objc.ErrUnsupported

	// ErrNullHandle indicates the runtime returned NULL inside a list.
	ErrNullHandle = objc.ErrNullHandle

	// ErrConsumed indicates a builder was already registered or disposed.
	ErrConsumed = objc.ErrConsumed

	// ErrInvalidIMP indicates a Go function cannot back a method.
	ErrInvalidIMP = objc.ErrInvalidIMP

	// ErrInvalidText indicates a runtime string is not valid UTF-8.
	ErrInvalidText = translate.ErrInvalidText

	// ErrSyntax indicates a malformed type encoding.
	ErrSyntax = typeenc.ErrSyntax
)

// DecodeError is a runtime string that could not be decoded.
// It is distinct from absence, which is never an error.
type DecodeError = translate.DecodeError

// ElementError is a list element that failed to translate.
type ElementError = translate.ElementError

// IsDecodeError reports whether err came from an undecodable runtime string.
func IsDecodeError(err error) bool {
	return objc.IsDecodeError(err)
}

// ElementIndex returns the index of the list element that failed, or -1.
func ElementIndex(err error) int {
	return objc.ElementIndex(err)
}
