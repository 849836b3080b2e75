//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Object is an instance pointer. It does not retain the instance.
type Object struct {
	id ID
}

// ObjectOf wraps a raw object pointer, such as the self argument of an IMP.
func ObjectOf(id ID) Object {
	return Object{id: id}
}

// ID returns the raw object pointer.
func (o Object) ID() ID {
	return o.id
}

// IsNil reports whether o is nil.
func (o Object) IsNil() bool {
	return o.id == 0
}

// Class returns the class of o, or nil if o is nil.
func (o Object) Class() *Class {
	if o.id == 0 {
		return nil
	}
	return wrapClass(rt.objectGetClass(o.id))
}

// SetClass changes the class of o and returns the previous class.
func (o Object) SetClass(c *Class) *Class {
	if o.id == 0 || c == nil {
		return nil
	}
	return wrapClass(rt.objectSetClass(o.id, c.h))
}

// IsClass reports whether o is a class or metaclass object.
func (o Object) IsClass() (bool, error) {
	if rt.objectIsClass == nil {
		return false, ErrUnsupported
	}
	if o.id == 0 {
		return false, nil
	}
	return rt.objectIsClass(o.id), nil
}

// Ivar reads an object-typed instance variable.
func (o Object) Ivar(v *Ivar) Object {
	if o.id == 0 || v == nil {
		return Object{}
	}
	return Object{id: rt.objectGetIvar(o.id, v.h)}
}

// SetIvar writes an object-typed instance variable with the ivar's
// declared memory management, or unretained if it has none.
func (o Object) SetIvar(v *Ivar, value Object) {
	if o.id == 0 || v == nil {
		return
	}
	rt.objectSetIvar(o.id, v.h, value.id)
}

// SetIvarStrong is SetIvar with strong storage as the default.
func (o Object) SetIvarStrong(v *Ivar, value Object) error {
	if rt.objectSetIvarStrong == nil {
		return ErrUnsupported
	}
	if o.id == 0 || v == nil {
		return nil
	}
	rt.objectSetIvarStrong(o.id, v.h, value.id)
	return nil
}

// Send sends sel to o with integer or pointer arguments and returns the
// integer result. Methods returning floats or structs need a typed
// implementation instead.
func (o Object) Send(sel Selector, args ...uintptr) (uintptr, error) {
	if rt.msgSend == 0 {
		return 0, ErrUnsupported
	}
	if o.id == 0 {
		return 0, nil
	}
	full := make([]uintptr, 0, len(args)+2)
	full = append(full, uintptr(o.id), uintptr(sel.h))
	full = append(full, args...)
	r1, _, _ := purego.SyscallN(rt.msgSend, full...)
	return r1, nil
}

// Dispose frees an instance created with Class.CreateInstance.
func (o Object) Dispose() error {
	if rt.objectDispose == nil {
		return ErrUnsupported
	}
	if o.id != 0 {
		rt.objectDispose(o.id)
	}
	return nil
}

func (o Object) String() string {
	if o.id == 0 {
		return "nil"
	}
	return fmt.Sprintf("<%s: %#x>", o.Class(), uintptr(o.id))
}
