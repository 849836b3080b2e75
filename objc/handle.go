//go:build !ios && !android && (amd64 || arm64)

package objc

// Raw runtime handles. They are opaque identities owned by the runtime;
// callers never free or invalidate them. The zero value is the runtime's
// NULL and never escapes a wrapper constructor.
type (
	// ClassHandle is a runtime Class.
	ClassHandle uintptr
	// MethodHandle is a runtime Method.
	MethodHandle uintptr
	// IvarHandle is a runtime Ivar.
	IvarHandle uintptr
	// PropertyHandle is a runtime objc_property_t.
	PropertyHandle uintptr
	// ProtocolHandle is a runtime Protocol *.
	ProtocolHandle uintptr
	// SEL is a runtime selector.
	SEL uintptr
	// ID is an object pointer.
	ID uintptr
)

func wrapClass(h ClassHandle) *Class {
	if h == 0 {
		return nil
	}
	return &Class{h: h}
}

func wrapMethod(h MethodHandle) *Method {
	if h == 0 {
		return nil
	}
	return &Method{h: h}
}

func wrapIvar(h IvarHandle) *Ivar {
	if h == 0 {
		return nil
	}
	return &Ivar{h: h}
}

func wrapProperty(h PropertyHandle) *Property {
	if h == 0 {
		return nil
	}
	return &Property{h: h}
}

func wrapProtocol(h ProtocolHandle) *Protocol {
	if h == 0 {
		return nil
	}
	return &Protocol{h: h}
}

// Element wrappers for list translation. A NULL inside a counted list is a
// runtime fault, not absence.

func classElem(h ClassHandle) (*Class, error) {
	if h == 0 {
		return nil, ErrNullHandle
	}
	return &Class{h: h}, nil
}

func methodElem(h MethodHandle) (*Method, error) {
	if h == 0 {
		return nil, ErrNullHandle
	}
	return &Method{h: h}, nil
}

func ivarElem(h IvarHandle) (*Ivar, error) {
	if h == 0 {
		return nil, ErrNullHandle
	}
	return &Ivar{h: h}, nil
}

func propertyElem(h PropertyHandle) (*Property, error) {
	if h == 0 {
		return nil, ErrNullHandle
	}
	return &Property{h: h}, nil
}

func protocolElem(h ProtocolHandle) (*Protocol, error) {
	if h == 0 {
		return nil, ErrNullHandle
	}
	return &Protocol{h: h}, nil
}
