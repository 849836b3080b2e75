//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"unsafe"

	"github.com/obinnaokechukwu/inspector/internal/translate"
)

// optString is a nullable runtime string that has been decoded.
type optString struct {
	s  string
	ok bool
}

// borrowed decodes a string the runtime keeps forever.
func borrowed(p *byte) (string, bool, error) {
	return translate.String(p, translate.Borrowed, nil)
}

// owned decodes a string copied for the caller and releases it.
func owned(p *byte) (string, bool, error) {
	return translate.String(p, translate.Owned, release)
}

func release(p unsafe.Pointer) {
	rt.free(p)
}

// lazyString caches a nullable borrowed string.
func lazyString(l *translate.Lazy[optString], read func() *byte) (string, bool, error) {
	v, err := l.Get(func() (optString, error) {
		s, ok, err := borrowed(read())
		return optString{s, ok}, err
	})
	return v.s, v.ok, err
}
