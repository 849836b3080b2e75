//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"github.com/obinnaokechukwu/inspector/internal/translate"
)

func nameElem(p *byte) (string, error) {
	if p == nil {
		return "", ErrNullHandle
	}
	s, _, err := borrowed(p)
	return s, err
}

// ImageNames returns the paths of every loaded image that contains
// Objective-C classes.
func ImageNames() ([]string, error) {
	if !ready() {
		return nil, nil
	}
	if rt.copyImageNames == nil {
		return nil, ErrUnsupported
	}
	var n uint32
	p := rt.copyImageNames(&n)
	return translate.List(p, n, release, nameElem)
}

// ClassNamesForImage returns the names of the classes defined in the image
// at path.
func ClassNamesForImage(path string) ([]string, error) {
	if !ready() {
		return nil, nil
	}
	if rt.copyClassNamesForImage == nil {
		return nil, ErrUnsupported
	}
	p := rt.copyClassNamesForImage(path, nil)
	return translate.Terminated(p, release, nameElem)
}
