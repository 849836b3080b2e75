//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"github.com/obinnaokechukwu/inspector/internal/translate"
)

// Protocol is a registered Objective-C protocol.
type Protocol struct {
	h ProtocolHandle

	name translate.Lazy[optString]
}

// GetProtocol returns the protocol named name, or nil.
func GetProtocol(name string) *Protocol {
	if !ready() {
		return nil
	}
	return wrapProtocol(rt.getProtocol(name))
}

// ProtocolList returns a snapshot of every registered protocol.
func ProtocolList() ([]*Protocol, error) {
	if !ready() {
		return nil, nil
	}
	var n uint32
	p := rt.copyProtocolList(&n)
	return translate.List(p, n, release, protocolElem)
}

// Handle returns the raw protocol handle.
func (p *Protocol) Handle() ProtocolHandle {
	return p.h
}

// Equal reports whether p and other are the same protocol as far as the
// runtime is concerned.
func (p *Protocol) Equal(other *Protocol) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.h == other.h {
		return true
	}
	return rt.protocolIsEqual(p.h, other.h)
}

// Name returns the protocol name.
func (p *Protocol) Name() (string, error) {
	s, _, err := lazyString(&p.name, func() *byte { return rt.protocolGetName(p.h) })
	return s, err
}

func (p *Protocol) String() string {
	name, err := p.Name()
	if err != nil {
		return "<protocol>"
	}
	return name
}

// ConformsTo reports whether p adopts other, directly or indirectly.
func (p *Protocol) ConformsTo(other *Protocol) bool {
	if other == nil {
		return false
	}
	return rt.protocolConformsToProtocol(p.h, other.h)
}

// MethodDescription returns the description of sel in p. The bool is false
// if p does not declare sel in the requested group.
func (p *Protocol) MethodDescription(sel Selector, required, instance bool) (MethodDescription, bool, error) {
	if rt.protocolGetMethodDescription != nil {
		d := rt.protocolGetMethodDescription(p.h, sel.h, required, instance)
		if d.name == 0 {
			return MethodDescription{}, false, nil
		}
		md, err := describe(d)
		return md, err == nil, err
	}

	// Runtimes without struct returns through purego: search the list.
	all, err := p.MethodDescriptions(required, instance)
	if err != nil {
		return MethodDescription{}, false, err
	}
	for _, md := range all {
		if md.Name.h == sel.h {
			return md, true, nil
		}
	}
	return MethodDescription{}, false, nil
}

// MethodDescriptions returns the methods p declares in the given group, not
// including those of adopted protocols.
func (p *Protocol) MethodDescriptions(required, instance bool) ([]MethodDescription, error) {
	var n uint32
	base := rt.protocolCopyMethodDescList(p.h, required, instance, &n)
	return translate.List(base, n, release, describe)
}

// Property returns the property named name declared by p, or nil.
func (p *Protocol) Property(name string, required, instance bool) *Property {
	return wrapProperty(rt.protocolGetProperty(p.h, name, required, instance))
}

// Properties returns the required instance properties declared by p.
func (p *Protocol) Properties() ([]*Property, error) {
	var n uint32
	base := rt.protocolCopyPropertyList(p.h, &n)
	return translate.List(base, n, release, propertyElem)
}

// PropertiesMatching returns the properties p declares in the given group.
func (p *Protocol) PropertiesMatching(required, instance bool) ([]*Property, error) {
	if rt.protocolCopyPropertyList2 == nil {
		if required && instance {
			return p.Properties()
		}
		return nil, ErrUnsupported
	}
	var n uint32
	base := rt.protocolCopyPropertyList2(p.h, &n, required, instance)
	return translate.List(base, n, release, propertyElem)
}

// Adopted returns the protocols p adopts directly.
func (p *Protocol) Adopted() ([]*Protocol, error) {
	var n uint32
	base := rt.protocolCopyProtocolList(p.h, &n)
	return translate.List(base, n, release, protocolElem)
}
