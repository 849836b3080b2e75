//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"fmt"
	"os"
	"unsafe"

	"go.uber.org/zap"

	"github.com/obinnaokechukwu/inspector/internal/platform"
	"github.com/obinnaokechukwu/inspector/internal/translate"
)

// Class is a registered Objective-C class or metaclass.
//
// Immutable facts (name, metaclass flag, instance size, image) are read once
// and cached. Superclass, version and ivar layouts are read fresh on every
// call because the runtime lets them change.
type Class struct {
	h ClassHandle

	name  translate.Lazy[optString]
	meta  translate.Lazy[bool]
	size  translate.Lazy[uintptr]
	image translate.Lazy[optString]
}

// exit terminates the process when a required class is missing.
var exit = os.Exit

// GetClass returns the class named name, or nil if no such class is
// registered. The runtime's class handler gets a chance to load it first.
func GetClass(name string) *Class {
	if !ready() {
		return nil
	}
	return wrapClass(rt.getClass(name))
}

// LookUpClass is GetClass without calling the class handler.
func LookUpClass(name string) *Class {
	if !ready() {
		return nil
	}
	return wrapClass(rt.lookUpClass(name))
}

// GetMetaClass returns the metaclass of the class named name, or nil.
func GetMetaClass(name string) *Class {
	if !ready() {
		return nil
	}
	return wrapClass(rt.getMetaClass(name))
}

// RequiredClass returns the class named name and terminates the process if
// it does not exist. It never returns nil.
func RequiredClass(name string) *Class {
	if ready() && rt.getRequiredClass != nil {
		// The runtime itself aborts on a miss.
		if c := wrapClass(rt.getRequiredClass(name)); c != nil {
			return c
		}
	} else if c := GetClass(name); c != nil {
		return c
	}
	Logger().Error("required class not found", zap.String("class", name))
	fmt.Fprintf(os.Stderr, "objc: link error: class '%s' not linked into application\n", name)
	exit(1)
	return nil
}

// ClassList returns a snapshot of every registered class. The runtime's
// class table may change after the call returns.
func ClassList() ([]*Class, error) {
	if !ready() {
		return nil, nil
	}
	if rt.copyClassList != nil {
		var n uint32
		p := rt.copyClassList(&n)
		return translate.List(p, n, release, classElem)
	}

	Logger().Debug("objc_copyClassList unavailable, using objc_getClassList")
	n := rt.getClassList(nil, 0)
	if n <= 0 {
		return nil, nil
	}
	buf := make([]ClassHandle, n)
	// The table may have grown between the two calls; never read past buf.
	got := rt.getClassList(unsafe.Pointer(&buf[0]), n)
	if got < n {
		buf = buf[:got]
	}
	out := make([]*Class, 0, len(buf))
	for i, h := range buf {
		c, err := classElem(h)
		if err != nil {
			return nil, &translate.ElementError{Index: i, Err: err}
		}
		out = append(out, c)
	}
	return out, nil
}

// Handle returns the raw class handle.
func (c *Class) Handle() ClassHandle {
	return c.h
}

// Equal reports whether c and other designate the same runtime class.
func (c *Class) Equal(other *Class) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.h == other.h
}

// Name returns the class name.
func (c *Class) Name() (string, error) {
	s, _, err := lazyString(&c.name, func() *byte { return rt.classGetName(c.h) })
	return s, err
}

// String returns the class name, or a placeholder if it cannot be decoded.
func (c *Class) String() string {
	if c == nil {
		return "<nil>"
	}
	name, err := c.Name()
	if err != nil {
		return fmt.Sprintf("<class %#x>", uintptr(c.h))
	}
	return name
}

// IsMetaClass reports whether c is a metaclass.
func (c *Class) IsMetaClass() bool {
	return c.meta.Value(func() bool { return rt.classIsMetaClass(c.h) })
}

// InstanceSize returns the size in bytes of instances of c.
func (c *Class) InstanceSize() uintptr {
	return c.size.Value(func() uintptr { return rt.classGetInstanceSize(c.h) })
}

// ImageName returns the path of the image c was loaded from. Classes created
// at run time have none.
func (c *Class) ImageName() (string, bool, error) {
	if rt.classGetImageName == nil {
		return "", false, nil
	}
	return lazyString(&c.image, func() *byte { return rt.classGetImageName(c.h) })
}

// Superclass returns the superclass, or nil for a root class.
func (c *Class) Superclass() *Class {
	return wrapClass(rt.classGetSuperclass(c.h))
}

// Version returns the class version.
func (c *Class) Version() int32 {
	return rt.classGetVersion(c.h)
}

// SetVersion sets the class version.
func (c *Class) SetVersion(v int32) {
	rt.classSetVersion(c.h, v)
}

// IvarLayout returns a copy of the strong ivar layout, or nil.
func (c *Class) IvarLayout() []byte {
	return translate.Bytes(rt.classGetIvarLayout(c.h))
}

// WeakIvarLayout returns a copy of the weak ivar layout, or nil.
func (c *Class) WeakIvarLayout() []byte {
	return translate.Bytes(rt.classGetWeakIvarLayout(c.h))
}

// MethodImplementation returns the function that would run if sel were sent
// to an instance of c. This may be the runtime's forwarding trampoline.
func (c *Class) MethodImplementation(sel Selector) IMP {
	return rt.classGetMethodImpl(c.h, sel.h)
}

// MethodImplementationStret is MethodImplementation for methods returning
// structs in memory. Only x86_64 runtimes provide it.
func (c *Class) MethodImplementationStret(sel Selector) (IMP, error) {
	if !platform.HasStretDispatch || rt.classGetMethodImplStret == nil {
		return 0, ErrUnsupported
	}
	return rt.classGetMethodImplStret(c.h, sel.h), nil
}

// InstanceVariable returns the ivar named name, searching superclasses.
func (c *Class) InstanceVariable(name string) *Ivar {
	return wrapIvar(rt.classGetInstanceVariable(c.h, name))
}

// ClassVariable returns the class variable named name.
func (c *Class) ClassVariable(name string) *Ivar {
	return wrapIvar(rt.classGetClassVariable(c.h, name))
}

// Ivars returns the ivars declared by c itself, in declaration order.
func (c *Class) Ivars() ([]*Ivar, error) {
	var n uint32
	p := rt.classCopyIvarList(c.h, &n)
	return translate.List(p, n, release, ivarElem)
}

// InstanceMethod returns the instance method for sel, searching superclasses.
func (c *Class) InstanceMethod(sel Selector) *Method {
	return wrapMethod(rt.classGetInstanceMethod(c.h, sel.h))
}

// ClassMethod returns the class method for sel, searching superclasses.
func (c *Class) ClassMethod(sel Selector) *Method {
	return wrapMethod(rt.classGetClassMethod(c.h, sel.h))
}

// Methods returns the instance methods implemented by c itself. Use the
// metaclass to list class methods.
func (c *Class) Methods() ([]*Method, error) {
	var n uint32
	p := rt.classCopyMethodList(c.h, &n)
	return translate.List(p, n, release, methodElem)
}

// RespondsTo reports whether instances of c respond to sel.
func (c *Class) RespondsTo(sel Selector) bool {
	return rt.classRespondsToSelector(c.h, sel.h)
}

// ConformsTo reports whether c conforms to p.
func (c *Class) ConformsTo(p *Protocol) bool {
	if p == nil {
		return false
	}
	return rt.classConformsToProtocol(c.h, p.h)
}

// Protocols returns the protocols adopted by c itself.
func (c *Class) Protocols() ([]*Protocol, error) {
	var n uint32
	p := rt.classCopyProtocolList(c.h, &n)
	return translate.List(p, n, release, protocolElem)
}

// Property returns the property named name, or nil.
func (c *Class) Property(name string) *Property {
	return wrapProperty(rt.classGetProperty(c.h, name))
}

// Properties returns the properties declared by c itself.
func (c *Class) Properties() ([]*Property, error) {
	var n uint32
	p := rt.classCopyPropertyList(c.h, &n)
	return translate.List(p, n, release, propertyElem)
}

// AddMethod adds a method for sel. It reports false if c already
// implements sel itself; use ReplaceMethod to override.
func (c *Class) AddMethod(sel Selector, imp IMP, types string) bool {
	return rt.classAddMethod(c.h, sel.h, imp, types)
}

// ReplaceMethod replaces or adds the implementation of sel and returns the
// implementation it replaced, or 0 if sel was added.
func (c *Class) ReplaceMethod(sel Selector, imp IMP, types string) IMP {
	return rt.classReplaceMethod(c.h, sel.h, imp, types)
}

// AddProtocol adds p to c and reports whether it was added.
func (c *Class) AddProtocol(p *Protocol) bool {
	if p == nil {
		return false
	}
	return rt.classAddProtocol(c.h, p.h)
}

// AddProperty adds a property and reports whether it was added.
func (c *Class) AddProperty(name string, attrs []PropertyAttribute) bool {
	return withAttributes(attrs, func(p unsafe.Pointer, n uint32) bool {
		return rt.classAddProperty(c.h, name, p, n)
	})
}

// ReplaceProperty replaces the attributes of a property, adding it if needed.
func (c *Class) ReplaceProperty(name string, attrs []PropertyAttribute) {
	withAttributes(attrs, func(p unsafe.Pointer, n uint32) bool {
		rt.classReplaceProperty(c.h, name, p, n)
		return true
	})
}

// CreateInstance allocates an instance of c with extra bytes of indexed
// storage. It returns the zero Object on failure.
func (c *Class) CreateInstance(extra uintptr) Object {
	return Object{id: rt.classCreateInstance(c.h, extra)}
}

// Duplicate registers a copy of c under a new name. Used by key-value
// observing; rarely needed elsewhere.
func (c *Class) Duplicate(name string, extra uintptr) (*Class, error) {
	if rt.duplicateClass == nil {
		return nil, ErrUnsupported
	}
	return wrapClass(rt.duplicateClass(c.h, name, extra)), nil
}
