//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"fmt"

	"github.com/obinnaokechukwu/inspector/internal/translate"
)

// Ivar is an instance variable. All of its facts are fixed once the ivar
// exists and are cached on first read.
type Ivar struct {
	h IvarHandle

	name   translate.Lazy[optString]
	types  translate.Lazy[optString]
	offset translate.Lazy[uintptr]
}

// Handle returns the raw ivar handle.
func (v *Ivar) Handle() IvarHandle {
	return v.h
}

// Equal reports whether v and other designate the same ivar.
func (v *Ivar) Equal(other *Ivar) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.h == other.h
}

// Name returns the ivar name. Anonymous ivars have none.
func (v *Ivar) Name() (string, bool, error) {
	return lazyString(&v.name, func() *byte { return rt.ivarGetName(v.h) })
}

// TypeEncoding returns the ivar's type encoding.
func (v *Ivar) TypeEncoding() (string, bool, error) {
	return lazyString(&v.types, func() *byte { return rt.ivarGetTypeEncoding(v.h) })
}

// Offset returns the byte offset of the ivar within an instance.
func (v *Ivar) Offset() uintptr {
	return v.offset.Value(func() uintptr { return rt.ivarGetOffset(v.h) })
}

func (v *Ivar) String() string {
	name, _, _ := v.Name()
	types, _, _ := v.TypeEncoding()
	return fmt.Sprintf("%s %s +%d", name, types, v.Offset())
}
