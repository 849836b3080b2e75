//go:build !ios && !android && (amd64 || arm64)

package translate

import (
	"strings"
	"unicode/utf8"
	"unsafe"
)

// Ownership says who releases a C string returned by the runtime.
type Ownership int

const (
	// Borrowed strings live in the runtime's own tables (class names,
	// selector names, type encodings) and are never released.
	Borrowed Ownership = iota
	// Owned strings were allocated for this call and must be released once.
	Owned
)

func (o Ownership) String() string {
	switch o {
	case Borrowed:
		return "borrowed"
	case Owned:
		return "owned"
	default:
		return "unknown"
	}
}

// String decodes the NUL-terminated C string at p.
//
// A nil p is absence: ("", false, nil). Otherwise the bytes are copied into a
// Go string and validated as UTF-8; invalid text yields a *DecodeError and
// present=true, so callers can tell "no name" from "unreadable name".
// Owned strings are released exactly once whatever the outcome.
func String(p *byte, own Ownership, free Freer) (s string, present bool, err error) {
	if p == nil {
		return "", false, nil
	}
	if own == Owned {
		defer free(unsafe.Pointer(p))
	}

	n := strlen(p)
	s = strings.Clone(unsafe.String(p, n))
	if !utf8.ValidString(s) {
		return "", true, newDecodeError(s)
	}
	return s, true, nil
}

// Bytes copies the NUL-terminated byte string at p without decoding it.
// Ivar layouts are binary and go through here. A nil p yields nil.
func Bytes(p *byte) []byte {
	if p == nil {
		return nil
	}
	n := strlen(p)
	out := make([]byte, n)
	copy(out, unsafe.Slice(p, n))
	return out
}

// CString returns a NUL-terminated copy of s suitable for passing to C while
// the returned slice is kept alive.
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func strlen(p *byte) int {
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return n
}
