//go:build !ios && !android && (amd64 || arm64)

package objc

// Selector names a method. Selectors are interned by the runtime, so two
// Selectors with the same name compare equal with ==.
type Selector struct {
	h SEL
}

// RegisterSelector registers name with the runtime if needed and returns its
// selector.
func RegisterSelector(name string) Selector {
	if !ready() {
		return Selector{}
	}
	return Selector{h: rt.selRegisterName(name)}
}

// SelectorUID is RegisterSelector under its historical name.
func SelectorUID(name string) Selector {
	if !ready() {
		return Selector{}
	}
	return Selector{h: rt.selGetUID(name)}
}

// SelectorOf wraps a raw selector, typically the _cmd argument of an IMP.
func SelectorOf(sel SEL) Selector {
	return Selector{h: sel}
}

// Handle returns the raw selector.
func (s Selector) Handle() SEL {
	return s.h
}

// IsZero reports whether s is the NULL selector.
func (s Selector) IsZero() bool {
	return s.h == 0
}

// Name returns the selector's name.
func (s Selector) Name() (string, error) {
	if s.h == 0 {
		return "", nil
	}
	name, _, err := borrowed(rt.selGetName(s.h))
	return name, err
}

// IsMapped reports whether s is registered with the runtime.
func (s Selector) IsMapped() bool {
	if s.h == 0 {
		return false
	}
	return rt.selIsMapped(s.h)
}

// Equal reports whether s and other name the same method.
func (s Selector) Equal(other Selector) bool {
	if s.h == 0 || other.h == 0 {
		return s.h == other.h
	}
	return rt.selIsEqual(s.h, other.h)
}

func (s Selector) String() string {
	name, err := s.Name()
	if err != nil {
		return "<selector>"
	}
	return name
}
