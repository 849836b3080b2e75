//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"fmt"

	"github.com/obinnaokechukwu/inspector/internal/translate"
)

// MethodDescription is a selector and its type encoding, as declared by a
// protocol or a method.
type MethodDescription struct {
	Name  Selector
	Types string
}

// Method is a method of a class.
//
// The selector, type encoding and argument count never change. The
// implementation does, so Implementation always asks the runtime.
type Method struct {
	h MethodHandle

	name  translate.Lazy[Selector]
	types translate.Lazy[optString]
	nargs translate.Lazy[uint32]
}

// Handle returns the raw method handle.
func (m *Method) Handle() MethodHandle {
	return m.h
}

// Equal reports whether m and other designate the same method.
func (m *Method) Equal(other *Method) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.h == other.h
}

// Name returns the method's selector.
func (m *Method) Name() Selector {
	return m.name.Value(func() Selector { return Selector{h: rt.methodGetName(m.h)} })
}

// TypeEncoding returns the method's type encoding, e.g. "v24@0:8@16".
func (m *Method) TypeEncoding() (string, bool, error) {
	return lazyString(&m.types, func() *byte { return rt.methodGetTypeEncoding(m.h) })
}

// NumArguments returns the number of arguments, including self and _cmd.
func (m *Method) NumArguments() int {
	return int(m.nargs.Value(func() uint32 { return rt.methodGetNumArguments(m.h) }))
}

// ReturnType returns the encoding of the return type. Each call copies it
// from the runtime afresh.
func (m *Method) ReturnType() (string, bool, error) {
	return owned(rt.methodCopyReturnType(m.h))
}

// ArgumentType returns the encoding of argument index. Indices 0 and 1 are
// self and _cmd. An index out of range is absent.
func (m *Method) ArgumentType(index int) (string, bool, error) {
	if index < 0 || index >= m.NumArguments() {
		return "", false, nil
	}
	return owned(rt.methodCopyArgumentType(m.h, uint32(index)))
}

// Implementation returns the method's current implementation.
func (m *Method) Implementation() IMP {
	return rt.methodGetImplementation(m.h)
}

// SetImplementation installs imp and returns the previous implementation.
func (m *Method) SetImplementation(imp IMP) IMP {
	return rt.methodSetImplementation(m.h, imp)
}

// ExchangeImplementations swaps the implementations of m and other.
func (m *Method) ExchangeImplementations(other *Method) {
	rt.methodExchangeImpls(m.h, other.h)
}

// Description returns the method's selector and type encoding.
func (m *Method) Description() (MethodDescription, error) {
	d := rt.methodGetDescription(m.h)
	if d == nil {
		return MethodDescription{}, ErrNullHandle
	}
	return describe(*d)
}

// String returns the selector name and its type encoding.
func (m *Method) String() string {
	name, _ := m.Name().Name()
	types, _, _ := m.TypeEncoding()
	return fmt.Sprintf("%s %s", name, types)
}

func describe(d methodDescription) (MethodDescription, error) {
	types, _, err := borrowed(d.types)
	if err != nil {
		return MethodDescription{}, err
	}
	return MethodDescription{Name: Selector{h: d.name}, Types: types}, nil
}
