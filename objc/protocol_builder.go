//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"unsafe"

	"go.uber.org/zap"
)

// ProtocolBuilder is a protocol under construction. Its methods are only
// legal before Register; afterwards they report false.
type ProtocolBuilder struct {
	h    ProtocolHandle
	name string
}

// AllocateProtocol starts building a protocol named name. It returns nil if
// a protocol with that name already exists.
func AllocateProtocol(name string) *ProtocolBuilder {
	if !ready() {
		return nil
	}
	h := rt.allocateProtocol(name)
	if h == 0 {
		return nil
	}
	return &ProtocolBuilder{h: h, name: name}
}

// Name returns the name the protocol was allocated with.
func (b *ProtocolBuilder) Name() string {
	return b.name
}

// AddMethodDescription declares a method.
func (b *ProtocolBuilder) AddMethodDescription(sel Selector, types string, required, instance bool) bool {
	if b.h == 0 {
		return false
	}
	rt.protocolAddMethodDescription(b.h, sel.h, types, required, instance)
	return true
}

// AddProtocol makes the new protocol adopt p. p must be registered.
func (b *ProtocolBuilder) AddProtocol(p *Protocol) bool {
	if b.h == 0 || p == nil {
		return false
	}
	rt.protocolAddProtocol(b.h, p.h)
	return true
}

// AddProperty declares a property.
func (b *ProtocolBuilder) AddProperty(name string, attrs []PropertyAttribute, required, instance bool) bool {
	if b.h == 0 {
		return false
	}
	return withAttributes(attrs, func(p unsafe.Pointer, n uint32) bool {
		rt.protocolAddProperty(b.h, name, p, n, required, instance)
		return true
	})
}

// Register makes the protocol visible and immutable. The builder is spent
// afterwards.
func (b *ProtocolBuilder) Register() (*Protocol, error) {
	if b.h == 0 {
		return nil, ErrConsumed
	}
	h := b.h
	b.h = 0
	rt.registerProtocol(h)
	Logger().Debug("protocol registered", zap.String("protocol", b.name))
	return &Protocol{h: h}, nil
}
