//go:build !ios && !android && (amd64 || arm64)

package translate

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidText is wrapped by every DecodeError.
var ErrInvalidText = errors.New("translate: invalid UTF-8 text")

// DecodeError reports a runtime string that is not valid UTF-8.
type DecodeError struct {
	// Offset is the index of the first invalid byte.
	Offset int
	// Raw holds the undecoded bytes.
	Raw []byte
}

func newDecodeError(s string) *DecodeError {
	off := 0
	for off < len(s) {
		r, size := utf8.DecodeRuneInString(s[off:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		off += size
	}
	return &DecodeError{Offset: off, Raw: []byte(s)}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("translate: invalid UTF-8 at byte %d of %d", e.Offset, len(e.Raw))
}

func (e *DecodeError) Unwrap() error {
	return ErrInvalidText
}

// ElementError reports which element of a runtime list failed to translate.
type ElementError struct {
	Index int
	Err   error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("translate: element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}
