//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"fmt"
	"math/bits"
	"runtime"
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/inspector/typeenc"
)

// ClassBuilder is a class pair that has been allocated but not registered.
// Only construction-time mutations are available on it; Register hands back
// the usable class and spends the builder.
type ClassBuilder struct {
	h    ClassHandle
	name string
}

// AllocatedClass is a class created through a ClassBuilder. Besides being a
// regular Class it can be disposed of.
type AllocatedClass struct {
	*Class

	disposed atomic.Bool
}

// AllocateClass allocates a new class pair named name with superclass super
// (nil for a new root class). It returns nil if the name is taken or the
// runtime refuses.
func AllocateClass(super *Class, name string, extra uintptr) *ClassBuilder {
	if !ready() {
		return nil
	}
	var sh ClassHandle
	if super != nil {
		sh = super.h
	}
	h := rt.allocateClassPair(sh, name, extra)
	if h == 0 {
		Logger().Debug("class allocation refused", zap.String("class", name))
		return nil
	}
	return &ClassBuilder{h: h, name: name}
}

// AllocateUniqueClass allocates a class whose name starts with prefix and
// is unique within the process.
func AllocateUniqueClass(super *Class, prefix string, extra uintptr) *ClassBuilder {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return AllocateClass(super, prefix+"_"+id, extra)
}

// Name returns the name the class was allocated with.
func (b *ClassBuilder) Name() string {
	return b.name
}

// AddIvar adds an instance variable. alignment is log2 of the required
// alignment. It reports false after Register.
func (b *ClassBuilder) AddIvar(name string, size uintptr, alignment uint8, types string) bool {
	if b.h == 0 {
		return false
	}
	return rt.classAddIvar(b.h, name, size, alignment, types)
}

// AddIvarOf adds an instance variable whose size and alignment are derived
// from its type encoding.
func (b *ClassBuilder) AddIvarOf(name, types string) (bool, error) {
	t, err := typeenc.Parse(types)
	if err != nil {
		return false, fmt.Errorf("ivar %s: %w", name, err)
	}
	if t.Align == 0 {
		return false, fmt.Errorf("ivar %s: type %q has no storage", name, types)
	}
	align := uint8(bits.TrailingZeros(uint(t.Align)))
	return b.AddIvar(name, t.Size, align, types), nil
}

// AddMethod adds an instance method.
func (b *ClassBuilder) AddMethod(sel Selector, imp IMP, types string) bool {
	if b.h == 0 {
		return false
	}
	return rt.classAddMethod(b.h, sel.h, imp, types)
}

// AddClassMethod adds a class method to the metaclass.
func (b *ClassBuilder) AddClassMethod(sel Selector, imp IMP, types string) bool {
	if b.h == 0 {
		return false
	}
	meta := rt.objectGetClass(ID(b.h))
	if meta == 0 {
		return false
	}
	return rt.classAddMethod(meta, sel.h, imp, types)
}

// AddProtocol declares conformance to p.
func (b *ClassBuilder) AddProtocol(p *Protocol) bool {
	if b.h == 0 || p == nil {
		return false
	}
	return rt.classAddProtocol(b.h, p.h)
}

// AddProperty declares a property.
func (b *ClassBuilder) AddProperty(name string, attrs []PropertyAttribute) bool {
	if b.h == 0 {
		return false
	}
	return withAttributes(attrs, func(p unsafe.Pointer, n uint32) bool {
		return rt.classAddProperty(b.h, name, p, n)
	})
}

// SetIvarLayout sets the strong ivar layout. A nil layout clears it.
func (b *ClassBuilder) SetIvarLayout(layout []byte) bool {
	if b.h == 0 {
		return false
	}
	setLayout(layout, func(p *byte) { rt.classSetIvarLayout(b.h, p) })
	return true
}

// SetWeakIvarLayout sets the weak ivar layout. A nil layout clears it.
func (b *ClassBuilder) SetWeakIvarLayout(layout []byte) bool {
	if b.h == 0 {
		return false
	}
	setLayout(layout, func(p *byte) { rt.classSetWeakIvarLayout(b.h, p) })
	return true
}

// Register registers the class and returns it. The builder is spent
// afterwards and every further call on it fails.
func (b *ClassBuilder) Register() (*AllocatedClass, error) {
	if b.h == 0 {
		return nil, ErrConsumed
	}
	h := b.h
	b.h = 0
	rt.registerClassPair(h)
	Logger().Debug("class registered", zap.String("class", b.name))
	return &AllocatedClass{Class: &Class{h: h}}, nil
}

// Dispose abandons the class pair without registering it.
func (b *ClassBuilder) Dispose() error {
	if b.h == 0 {
		return ErrConsumed
	}
	h := b.h
	b.h = 0
	rt.disposeClassPair(h)
	Logger().Debug("unregistered class disposed", zap.String("class", b.name))
	return nil
}

// Dispose destroys the class and its metaclass. Later calls return
// ErrConsumed without reaching the runtime.
//
// It must not be called while any instance of the class or any subclass
// exists; the runtime's behavior is undefined if it is. The receiver and
// every wrapper of the class are invalid afterwards.
func (a *AllocatedClass) Dispose() error {
	if !a.disposed.CompareAndSwap(false, true) {
		return ErrConsumed
	}
	name, _ := a.Name()
	h := a.h
	a.h = 0
	rt.disposeClassPair(h)
	Logger().Debug("class disposed", zap.String("class", name))
	return nil
}

func setLayout(layout []byte, set func(*byte)) {
	if layout == nil {
		set(nil)
		return
	}
	b := make([]byte, len(layout)+1)
	copy(b, layout)
	set(&b[0])
	runtime.KeepAlive(b)
}
