//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/obinnaokechukwu/inspector/internal/translate"
)

// fakeRuntime is an in-process stand-in for libobjc. Every buffer or string
// it hands out as caller-owned is tracked, and free complains about foreign
// pointers and double releases.
type fakeRuntime struct {
	t *testing.T

	mu      sync.Mutex
	next    uintptr
	live    map[unsafe.Pointer]any // caller-owned allocations not yet freed
	freed   map[unsafe.Pointer]int
	calls   map[string]int
	pinned  [][]byte // borrowed strings, kept for the life of the fake
	selName map[SEL]*byte
	selByID map[string]SEL

	classes   map[ClassHandle]*fakeClass
	classByID map[string]ClassHandle
	methods   map[MethodHandle]*fakeMethod
	ivars     map[IvarHandle]*fakeIvar
	props     map[PropertyHandle]*fakeProperty
	protocols map[ProtocolHandle]*fakeProtocol
	protoByID map[string]ProtocolHandle

	// emptyLists makes copy functions return a non-NULL block with a zero
	// count instead of NULL when there is nothing to list.
	emptyLists bool
}

type fakeClass struct {
	name       *byte
	super      ClassHandle
	meta       ClassHandle
	isMeta     bool
	version    int32
	size       uintptr
	registered bool
	ivars      []IvarHandle
	methods    []MethodHandle
	protocols  []ProtocolHandle
	props      []PropertyHandle
	layout     *byte
	weakLayout *byte
}

type fakeMethod struct {
	sel   SEL
	imp   IMP
	types *byte
	desc  methodDescription
}

type fakeIvar struct {
	name   *byte
	types  *byte
	offset uintptr
}

type fakeProperty struct {
	name  *byte
	attrs *byte
	list  []PropertyAttribute
}

type fakeProtocol struct {
	name       *byte
	registered bool
	methods    map[[2]bool][]methodDescription
	adopted    []ProtocolHandle
	props      []PropertyHandle
}

// installFake swaps the runtime table for a fake and restores it when the
// test ends.
func installFake(t *testing.T) *fakeRuntime {
	t.Helper()
	saved := rt
	savedExit := exit
	t.Cleanup(func() {
		rt = saved
		exit = savedExit
	})

	f := &fakeRuntime{
		t:         t,
		next:      0x1000,
		live:      make(map[unsafe.Pointer]any),
		freed:     make(map[unsafe.Pointer]int),
		calls:     make(map[string]int),
		selName:   make(map[SEL]*byte),
		selByID:   make(map[string]SEL),
		classes:   make(map[ClassHandle]*fakeClass),
		classByID: make(map[string]ClassHandle),
		methods:   make(map[MethodHandle]*fakeMethod),
		ivars:     make(map[IvarHandle]*fakeIvar),
		props:     make(map[PropertyHandle]*fakeProperty),
		protocols: make(map[ProtocolHandle]*fakeProtocol),
		protoByID: make(map[string]ProtocolHandle),
	}
	rt = f.table()
	return f
}

func (f *fakeRuntime) id() uintptr {
	f.next += 0x10
	return f.next
}

func (f *fakeRuntime) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeRuntime) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// cstr returns a borrowed C string owned by the fake.
func (f *fakeRuntime) cstr(s string) *byte {
	b := translate.CString(s)
	f.pinned = append(f.pinned, b)
	return &b[0]
}

// ownedStr returns a caller-owned C string.
func (f *fakeRuntime) ownedStr(s string) *byte {
	b := translate.CString(s)
	p := unsafe.Pointer(&b[0])
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live[p] = b
	return &b[0]
}

// block hands out elems as a caller-owned counted list.
func block[E any](f *fakeRuntime, elems []E, outCount *uint32) unsafe.Pointer {
	if outCount != nil {
		*outCount = uint32(len(elems))
	}
	if len(elems) == 0 && !f.emptyLists {
		return nil
	}
	// One spare zero element, like the runtime's NULL terminator.
	buf := make([]E, len(elems)+1)
	copy(buf, elems)
	p := unsafe.Pointer(&buf[0])
	f.mu.Lock()
	defer f.mu.Unlock()
	f.live[p] = buf
	return p
}

func (f *fakeRuntime) free(p unsafe.Pointer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.freed[p]++
	if _, ok := f.live[p]; !ok {
		if f.freed[p] > 1 {
			f.t.Errorf("double free of %p", p)
		} else {
			f.t.Errorf("free of pointer %p not owned by the caller", p)
		}
		return
	}
	delete(f.live, p)
}

// outstanding returns the number of caller-owned allocations not yet freed.
func (f *fakeRuntime) outstanding() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

// totalFrees returns the number of free calls.
func (f *fakeRuntime) totalFrees() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.freed {
		n += c
	}
	return n
}

func (f *fakeRuntime) sel(name string) SEL {
	if s, ok := f.selByID[name]; ok {
		return s
	}
	s := SEL(f.id())
	f.selByID[name] = s
	f.selName[s] = f.cstr(name)
	return s
}

// addClass registers a class and its metaclass.
func (f *fakeRuntime) addClass(name string, super ClassHandle, size uintptr) ClassHandle {
	meta := ClassHandle(f.id())
	h := ClassHandle(f.id())
	f.classes[meta] = &fakeClass{name: f.cstr(name), isMeta: true, registered: true}
	f.classes[h] = &fakeClass{name: f.cstr(name), super: super, meta: meta, size: size, registered: true}
	f.classByID[name] = h
	return h
}

func (f *fakeRuntime) addIvar(c ClassHandle, name, types string, offset uintptr) IvarHandle {
	h := IvarHandle(f.id())
	f.ivars[h] = &fakeIvar{name: f.cstr(name), types: f.cstr(types), offset: offset}
	f.classes[c].ivars = append(f.classes[c].ivars, h)
	return h
}

func (f *fakeRuntime) addMethod(c ClassHandle, name string, imp IMP, types string) MethodHandle {
	h := MethodHandle(f.id())
	sel := f.sel(name)
	tp := f.cstr(types)
	f.methods[h] = &fakeMethod{sel: sel, imp: imp, types: tp, desc: methodDescription{name: sel, types: tp}}
	f.classes[c].methods = append(f.classes[c].methods, h)
	return h
}

func (f *fakeRuntime) addProperty(c ClassHandle, name, attrs string, list []PropertyAttribute) PropertyHandle {
	h := PropertyHandle(f.id())
	f.props[h] = &fakeProperty{name: f.cstr(name), attrs: f.cstr(attrs), list: list}
	if c != 0 {
		f.classes[c].props = append(f.classes[c].props, h)
	}
	return h
}

func (f *fakeRuntime) addProtocol(name string) ProtocolHandle {
	h := ProtocolHandle(f.id())
	f.protocols[h] = &fakeProtocol{
		name:       f.cstr(name),
		registered: true,
		methods:    make(map[[2]bool][]methodDescription),
	}
	f.protoByID[name] = h
	return h
}

func (f *fakeRuntime) lookupMethod(c ClassHandle, sel SEL) MethodHandle {
	for c != 0 {
		for _, m := range f.classes[c].methods {
			if f.methods[m].sel == sel {
				return m
			}
		}
		c = f.classes[c].super
	}
	return 0
}

func (f *fakeRuntime) conforms(p, other ProtocolHandle) bool {
	if p == other {
		return true
	}
	for _, a := range f.protocols[p].adopted {
		if f.conforms(a, other) {
			return true
		}
	}
	return false
}

func (f *fakeRuntime) table() runtimeFuncs {
	return runtimeFuncs{
		free: f.free,

		getClass: func(name string) ClassHandle {
			f.count("objc_getClass")
			return f.classByID[name]
		},
		lookUpClass: func(name string) ClassHandle { return f.classByID[name] },
		getMetaClass: func(name string) ClassHandle {
			if h, ok := f.classByID[name]; ok {
				return f.classes[h].meta
			}
			return 0
		},
		copyClassList: func(outCount *uint32) unsafe.Pointer {
			f.count("objc_copyClassList")
			var hs []ClassHandle
			for h, c := range f.classes {
				if !c.isMeta && c.registered {
					hs = append(hs, h)
				}
			}
			sortHandles(hs)
			return block(f, hs, outCount)
		},
		getClassList: func(buf unsafe.Pointer, count int32) int32 {
			var hs []ClassHandle
			for h, c := range f.classes {
				if !c.isMeta && c.registered {
					hs = append(hs, h)
				}
			}
			sortHandles(hs)
			if buf != nil {
				dst := unsafe.Slice((*ClassHandle)(buf), count)
				copy(dst, hs)
			}
			return int32(len(hs))
		},

		classGetName: func(c ClassHandle) *byte {
			f.count("class_getName")
			return f.classes[c].name
		},
		classIsMetaClass: func(c ClassHandle) bool { return f.classes[c].isMeta },
		classGetSuperclass: func(c ClassHandle) ClassHandle {
			f.count("class_getSuperclass")
			return f.classes[c].super
		},
		classGetVersion: func(c ClassHandle) int32 {
			f.count("class_getVersion")
			return f.classes[c].version
		},
		classSetVersion: func(c ClassHandle, v int32) { f.classes[c].version = v },
		classGetInstanceSize: func(c ClassHandle) uintptr {
			f.count("class_getInstanceSize")
			return f.classes[c].size
		},
		classGetIvarLayout: func(c ClassHandle) *byte { return f.classes[c].layout },
		classSetIvarLayout: func(c ClassHandle, layout *byte) {
			if layout == nil {
				f.classes[c].layout = nil
				return
			}
			b := translate.Bytes(layout)
			f.classes[c].layout = f.cstr(string(b))
		},
		classGetWeakIvarLayout: func(c ClassHandle) *byte { return f.classes[c].weakLayout },
		classSetWeakIvarLayout: func(c ClassHandle, layout *byte) {
			if layout == nil {
				f.classes[c].weakLayout = nil
				return
			}
			f.classes[c].weakLayout = f.cstr(string(translate.Bytes(layout)))
		},

		classGetInstanceVariable: func(c ClassHandle, name string) IvarHandle {
			for c != 0 {
				for _, v := range f.classes[c].ivars {
					if n, _, _ := borrowed(f.ivars[v].name); n == name {
						return v
					}
				}
				c = f.classes[c].super
			}
			return 0
		},
		classGetClassVariable: func(c ClassHandle, name string) IvarHandle { return 0 },
		classCopyIvarList: func(c ClassHandle, outCount *uint32) unsafe.Pointer {
			return block(f, f.classes[c].ivars, outCount)
		},
		classAddIvar: func(c ClassHandle, name string, size uintptr, alignment uint8, types string) bool {
			f.count("class_addIvar")
			cls := f.classes[c]
			if cls.registered || cls.isMeta {
				return false
			}
			align := uintptr(1) << alignment
			off := (cls.size + align - 1) &^ (align - 1)
			f.addIvar(c, name, types, off)
			cls.size = off + size
			return true
		},
		classGetInstanceMethod: func(c ClassHandle, sel SEL) MethodHandle {
			return f.lookupMethod(c, sel)
		},
		classGetClassMethod: func(c ClassHandle, sel SEL) MethodHandle {
			return f.lookupMethod(f.classes[c].meta, sel)
		},
		classCopyMethodList: func(c ClassHandle, outCount *uint32) unsafe.Pointer {
			return block(f, f.classes[c].methods, outCount)
		},
		classAddMethod: func(c ClassHandle, sel SEL, imp IMP, types string) bool {
			for _, m := range f.classes[c].methods {
				if f.methods[m].sel == sel {
					return false
				}
			}
			name, _, _ := borrowed(f.selName[sel])
			f.addMethod(c, name, imp, types)
			return true
		},
		classReplaceMethod: func(c ClassHandle, sel SEL, imp IMP, types string) IMP {
			for _, m := range f.classes[c].methods {
				if fm := f.methods[m]; fm.sel == sel {
					old := fm.imp
					fm.imp = imp
					return old
				}
			}
			name, _, _ := borrowed(f.selName[sel])
			f.addMethod(c, name, imp, types)
			return 0
		},
		classGetMethodImpl: func(c ClassHandle, sel SEL) IMP {
			if m := f.lookupMethod(c, sel); m != 0 {
				return f.methods[m].imp
			}
			return 0xf0f0 // forwarding trampoline
		},
		classRespondsToSelector: func(c ClassHandle, sel SEL) bool {
			return f.lookupMethod(c, sel) != 0
		},
		classConformsToProtocol: func(c ClassHandle, p ProtocolHandle) bool {
			for _, q := range f.classes[c].protocols {
				if f.conforms(q, p) {
					return true
				}
			}
			return false
		},
		classCopyProtocolList: func(c ClassHandle, outCount *uint32) unsafe.Pointer {
			return block(f, f.classes[c].protocols, outCount)
		},
		classAddProtocol: func(c ClassHandle, p ProtocolHandle) bool {
			for _, q := range f.classes[c].protocols {
				if q == p {
					return false
				}
			}
			f.classes[c].protocols = append(f.classes[c].protocols, p)
			return true
		},
		classGetProperty: func(c ClassHandle, name string) PropertyHandle {
			for _, p := range f.classes[c].props {
				if n, _, _ := borrowed(f.props[p].name); n == name {
					return p
				}
			}
			return 0
		},
		classCopyPropertyList: func(c ClassHandle, outCount *uint32) unsafe.Pointer {
			return block(f, f.classes[c].props, outCount)
		},
		classAddProperty: func(c ClassHandle, name string, attrs unsafe.Pointer, count uint32) bool {
			for _, p := range f.classes[c].props {
				if n, _, _ := borrowed(f.props[p].name); n == name {
					return false
				}
			}
			list := readAttributes(attrs, count)
			f.addProperty(c, name, encodeAttributes(list), list)
			return true
		},
		classReplaceProperty: func(c ClassHandle, name string, attrs unsafe.Pointer, count uint32) {
			list := readAttributes(attrs, count)
			for _, p := range f.classes[c].props {
				if n, _, _ := borrowed(f.props[p].name); n == name {
					f.props[p].list = list
					f.props[p].attrs = f.cstr(encodeAttributes(list))
					return
				}
			}
			f.addProperty(c, name, encodeAttributes(list), list)
		},
		classCreateInstance: func(c ClassHandle, extra uintptr) ID {
			return ID(f.id())
		},

		allocateClassPair: func(super ClassHandle, name string, extra uintptr) ClassHandle {
			if _, taken := f.classByID[name]; taken {
				return 0
			}
			var size uintptr
			if super != 0 {
				size = f.classes[super].size
			}
			h := f.addClass(name, super, size)
			f.classes[h].registered = false
			return h
		},
		registerClassPair: func(c ClassHandle) {
			f.count("objc_registerClassPair")
			f.classes[c].registered = true
		},
		disposeClassPair: func(c ClassHandle) {
			f.count("objc_disposeClassPair")
			cls := f.classes[c]
			n, _, _ := borrowed(cls.name)
			delete(f.classByID, n)
			delete(f.classes, cls.meta)
			delete(f.classes, c)
		},

		methodGetName: func(m MethodHandle) SEL {
			f.count("method_getName")
			return f.methods[m].sel
		},
		methodGetImplementation: func(m MethodHandle) IMP {
			f.count("method_getImplementation")
			return f.methods[m].imp
		},
		methodGetTypeEncoding: func(m MethodHandle) *byte {
			f.count("method_getTypeEncoding")
			return f.methods[m].types
		},
		methodGetNumArguments: func(m MethodHandle) uint32 {
			n, _, _ := borrowed(f.methods[m].types)
			return uint32(countArgs(n))
		},
		methodCopyReturnType: func(m MethodHandle) *byte {
			n, _, _ := borrowed(f.methods[m].types)
			return f.ownedStr(n[:1])
		},
		methodCopyArgumentType: func(m MethodHandle, index uint32) *byte {
			n, _, _ := borrowed(f.methods[m].types)
			args := splitArgs(n)
			if int(index) >= len(args) {
				return nil
			}
			return f.ownedStr(args[index])
		},
		methodGetDescription: func(m MethodHandle) *methodDescription {
			return &f.methods[m].desc
		},
		methodSetImplementation: func(m MethodHandle, imp IMP) IMP {
			old := f.methods[m].imp
			f.methods[m].imp = imp
			return old
		},
		methodExchangeImpls: func(m1, m2 MethodHandle) {
			a, b := f.methods[m1], f.methods[m2]
			a.imp, b.imp = b.imp, a.imp
		},

		ivarGetName: func(v IvarHandle) *byte {
			f.count("ivar_getName")
			return f.ivars[v].name
		},
		ivarGetTypeEncoding: func(v IvarHandle) *byte { return f.ivars[v].types },
		ivarGetOffset: func(v IvarHandle) uintptr {
			f.count("ivar_getOffset")
			return f.ivars[v].offset
		},

		propertyGetName:       func(p PropertyHandle) *byte { return f.props[p].name },
		propertyGetAttributes: func(p PropertyHandle) *byte { return f.props[p].attrs },
		propertyCopyAttributeList: func(p PropertyHandle, outCount *uint32) unsafe.Pointer {
			var raw []propertyAttribute
			for _, a := range f.props[p].list {
				raw = append(raw, propertyAttribute{name: f.cstr(a.Name), value: f.cstr(a.Value)})
			}
			return block(f, raw, outCount)
		},
		propertyCopyAttributeValue: func(p PropertyHandle, name string) *byte {
			for _, a := range f.props[p].list {
				if a.Name == name {
					return f.ownedStr(a.Value)
				}
			}
			return nil
		},

		getProtocol: func(name string) ProtocolHandle {
			h := f.protoByID[name]
			if h != 0 && !f.protocols[h].registered {
				return 0
			}
			return h
		},
		copyProtocolList: func(outCount *uint32) unsafe.Pointer {
			var hs []ProtocolHandle
			for h, p := range f.protocols {
				if p.registered {
					hs = append(hs, h)
				}
			}
			sortHandles(hs)
			return block(f, hs, outCount)
		},
		allocateProtocol: func(name string) ProtocolHandle {
			if _, taken := f.protoByID[name]; taken {
				return 0
			}
			h := f.addProtocol(name)
			f.protocols[h].registered = false
			return h
		},
		registerProtocol: func(p ProtocolHandle) { f.protocols[p].registered = true },
		protocolGetName:  func(p ProtocolHandle) *byte { return f.protocols[p].name },
		protocolIsEqual: func(p, other ProtocolHandle) bool {
			return p == other
		},
		protocolConformsToProtocol: func(p, other ProtocolHandle) bool {
			return p != other && f.conforms(p, other)
		},
		protocolCopyMethodDescList: func(p ProtocolHandle, required, instance bool, outCount *uint32) unsafe.Pointer {
			return block(f, f.protocols[p].methods[[2]bool{required, instance}], outCount)
		},
		protocolGetProperty: func(p ProtocolHandle, name string, required, instance bool) PropertyHandle {
			for _, h := range f.protocols[p].props {
				if n, _, _ := borrowed(f.props[h].name); n == name {
					return h
				}
			}
			return 0
		},
		protocolCopyPropertyList: func(p ProtocolHandle, outCount *uint32) unsafe.Pointer {
			return block(f, f.protocols[p].props, outCount)
		},
		protocolCopyProtocolList: func(p ProtocolHandle, outCount *uint32) unsafe.Pointer {
			return block(f, f.protocols[p].adopted, outCount)
		},
		protocolAddMethodDescription: func(p ProtocolHandle, sel SEL, types string, required, instance bool) {
			key := [2]bool{required, instance}
			fp := f.protocols[p]
			fp.methods[key] = append(fp.methods[key], methodDescription{name: sel, types: f.cstr(types)})
		},
		protocolAddProtocol: func(p, addition ProtocolHandle) {
			f.protocols[p].adopted = append(f.protocols[p].adopted, addition)
		},
		protocolAddProperty: func(p ProtocolHandle, name string, attrs unsafe.Pointer, count uint32, required, instance bool) {
			list := readAttributes(attrs, count)
			h := f.addProperty(0, name, encodeAttributes(list), list)
			f.protocols[p].props = append(f.protocols[p].props, h)
		},

		selGetName:      func(sel SEL) *byte { return f.selName[sel] },
		selRegisterName: f.sel,
		selGetUID:       f.sel,
		selIsMapped: func(sel SEL) bool {
			_, ok := f.selName[sel]
			return ok
		},
		selIsEqual: func(a, b SEL) bool { return a == b },

		objectGetClass: func(obj ID) ClassHandle {
			if c, ok := f.classes[ClassHandle(obj)]; ok {
				return c.meta
			}
			return 0
		},
		objectSetClass: func(obj ID, c ClassHandle) ClassHandle { return 0 },
		objectGetIvar:  func(obj ID, v IvarHandle) ID { return 0 },
		objectSetIvar:  func(obj ID, v IvarHandle, value ID) {},
	}
}

func sortHandles[H ~uintptr](hs []H) {
	for i := 1; i < len(hs); i++ {
		for j := i; j > 0 && hs[j] < hs[j-1]; j-- {
			hs[j], hs[j-1] = hs[j-1], hs[j]
		}
	}
}

func readAttributes(p unsafe.Pointer, n uint32) []PropertyAttribute {
	if p == nil {
		return nil
	}
	var out []PropertyAttribute
	for _, a := range unsafe.Slice((*propertyAttribute)(p), n) {
		name, _, _ := borrowed(a.name)
		value, _, _ := borrowed(a.value)
		out = append(out, PropertyAttribute{Name: name, Value: value})
	}
	return out
}

func encodeAttributes(list []PropertyAttribute) string {
	s := ""
	for i, a := range list {
		if i > 0 {
			s += ","
		}
		s += a.Name + a.Value
	}
	return s
}

// splitArgs splits a simple method encoding such as "v24@0:8@16" into its
// return type and argument types, ignoring offsets.
func splitArgs(enc string) []string {
	var out []string
	for i := 0; i < len(enc); {
		c := enc[i]
		i++
		for i < len(enc) && enc[i] >= '0' && enc[i] <= '9' {
			i++
		}
		out = append(out, string(c))
	}
	if len(out) == 0 {
		return nil
	}
	return out[1:]
}

func countArgs(enc string) int {
	return len(splitArgs(enc))
}
