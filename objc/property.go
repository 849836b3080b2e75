//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"runtime"
	"unsafe"

	"github.com/obinnaokechukwu/inspector/internal/translate"
)

// PropertyAttribute is one attribute of a declared property, such as
// {"T", "@\"NSString\""} or {"N", ""}.
type PropertyAttribute struct {
	Name  string
	Value string
}

// Property is a declared property of a class or protocol.
type Property struct {
	h PropertyHandle

	name  translate.Lazy[optString]
	attrs translate.Lazy[optString]
}

// Handle returns the raw property handle.
func (p *Property) Handle() PropertyHandle {
	return p.h
}

// Equal reports whether p and other designate the same property.
func (p *Property) Equal(other *Property) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.h == other.h
}

// Name returns the property name.
func (p *Property) Name() (string, error) {
	s, _, err := lazyString(&p.name, func() *byte { return rt.propertyGetName(p.h) })
	return s, err
}

// Attributes returns the encoded attribute string, e.g. `T@"NSString",C,N,V_name`.
func (p *Property) Attributes() (string, bool, error) {
	return lazyString(&p.attrs, func() *byte { return rt.propertyGetAttributes(p.h) })
}

// AttributeList returns the property's attributes in declaration order.
func (p *Property) AttributeList() ([]PropertyAttribute, error) {
	var n uint32
	base := rt.propertyCopyAttributeList(p.h, &n)
	// The name and value strings live inside the block; copy them before it
	// is released.
	return translate.List(base, n, release, func(a propertyAttribute) (PropertyAttribute, error) {
		name, _, err := borrowed(a.name)
		if err != nil {
			return PropertyAttribute{}, err
		}
		value, _, err := borrowed(a.value)
		if err != nil {
			return PropertyAttribute{}, err
		}
		return PropertyAttribute{Name: name, Value: value}, nil
	})
}

// AttributeValue returns the value of the attribute named name.
func (p *Property) AttributeValue(name string) (string, bool, error) {
	return owned(rt.propertyCopyAttributeValue(p.h, name))
}

// String returns the property name.
func (p *Property) String() string {
	name, err := p.Name()
	if err != nil {
		return "<property>"
	}
	return name
}

// withAttributes lays attrs out as an objc_property_attribute_t array and
// passes it to fn. The array and its strings stay pinned for the call.
func withAttributes(attrs []PropertyAttribute, fn func(p unsafe.Pointer, n uint32) bool) bool {
	if len(attrs) == 0 {
		return fn(nil, 0)
	}

	var pinner runtime.Pinner
	defer pinner.Unpin()

	raw := make([]propertyAttribute, len(attrs))
	for i, a := range attrs {
		name := translate.CString(a.Name)
		value := translate.CString(a.Value)
		pinner.Pin(&name[0])
		pinner.Pin(&value[0])
		raw[i] = propertyAttribute{name: &name[0], value: &value[0]}
	}
	pinner.Pin(&raw[0])
	return fn(unsafe.Pointer(&raw[0]), uint32(len(raw)))
}
