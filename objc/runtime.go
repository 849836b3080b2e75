//go:build !ios && !android && (amd64 || arm64)

// Package objc provides typed wrappers over the Objective-C runtime's
// introspection API, loaded at run time with purego.
//
// Handles handed out by the runtime are opaque and process-lifetime unless
// stated otherwise. Lists and strings the runtime copies for the caller are
// translated into Go values and released before a wrapper returns, so no
// runtime-owned buffer ever escapes this package.
//
// Read operations may be called from any goroutine. Mutations (adding
// methods, ivars, properties or protocols, replacing implementations,
// setting versions or layouts) follow the runtime's own rules and must be
// serialized by the caller where the runtime requires it. This package adds
// no locking around them.
package objc

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/inspector/internal/bindings"
	"github.com/obinnaokechukwu/inspector/internal/platform"
)

// methodDescription mirrors struct objc_method_description.
type methodDescription struct {
	name  SEL
	types *byte
}

// propertyAttribute mirrors objc_property_attribute_t.
type propertyAttribute struct {
	name  *byte
	value *byte
}

// runtimeFuncs is the table of runtime entry points. Optional entries are
// nil when the loaded runtime does not export them.
type runtimeFuncs struct {
	free func(p unsafe.Pointer)

	// Class lookup and enumeration
	getClass         func(name string) ClassHandle
	lookUpClass      func(name string) ClassHandle
	getMetaClass     func(name string) ClassHandle
	getRequiredClass func(name string) ClassHandle         // optional
	copyClassList    func(outCount *uint32) unsafe.Pointer // optional
	getClassList     func(buf unsafe.Pointer, count int32) int32

	// Class facts
	classGetName           func(c ClassHandle) *byte
	classIsMetaClass       func(c ClassHandle) bool
	classGetSuperclass     func(c ClassHandle) ClassHandle
	classGetVersion        func(c ClassHandle) int32
	classSetVersion        func(c ClassHandle, v int32)
	classGetInstanceSize   func(c ClassHandle) uintptr
	classGetImageName      func(c ClassHandle) *byte // optional
	classGetIvarLayout     func(c ClassHandle) *byte
	classSetIvarLayout     func(c ClassHandle, layout *byte)
	classGetWeakIvarLayout func(c ClassHandle) *byte
	classSetWeakIvarLayout func(c ClassHandle, layout *byte)

	// Class members
	classGetInstanceVariable func(c ClassHandle, name string) IvarHandle
	classGetClassVariable    func(c ClassHandle, name string) IvarHandle
	classCopyIvarList        func(c ClassHandle, outCount *uint32) unsafe.Pointer
	classAddIvar             func(c ClassHandle, name string, size uintptr, alignment uint8, types string) bool
	classGetInstanceMethod   func(c ClassHandle, sel SEL) MethodHandle
	classGetClassMethod      func(c ClassHandle, sel SEL) MethodHandle
	classCopyMethodList      func(c ClassHandle, outCount *uint32) unsafe.Pointer
	classAddMethod           func(c ClassHandle, sel SEL, imp IMP, types string) bool
	classReplaceMethod       func(c ClassHandle, sel SEL, imp IMP, types string) IMP
	classGetMethodImpl       func(c ClassHandle, sel SEL) IMP
	classGetMethodImplStret  func(c ClassHandle, sel SEL) IMP // optional, x86_64 only
	classRespondsToSelector  func(c ClassHandle, sel SEL) bool
	classConformsToProtocol  func(c ClassHandle, p ProtocolHandle) bool
	classCopyProtocolList    func(c ClassHandle, outCount *uint32) unsafe.Pointer
	classAddProtocol         func(c ClassHandle, p ProtocolHandle) bool
	classGetProperty         func(c ClassHandle, name string) PropertyHandle
	classCopyPropertyList    func(c ClassHandle, outCount *uint32) unsafe.Pointer
	classAddProperty         func(c ClassHandle, name string, attrs unsafe.Pointer, count uint32) bool
	classReplaceProperty     func(c ClassHandle, name string, attrs unsafe.Pointer, count uint32)
	classCreateInstance      func(c ClassHandle, extra uintptr) ID

	// Class construction
	allocateClassPair func(super ClassHandle, name string, extra uintptr) ClassHandle
	registerClassPair func(c ClassHandle)
	disposeClassPair  func(c ClassHandle)
	duplicateClass    func(c ClassHandle, name string, extra uintptr) ClassHandle // optional

	// Methods
	methodGetName           func(m MethodHandle) SEL
	methodGetImplementation func(m MethodHandle) IMP
	methodGetTypeEncoding   func(m MethodHandle) *byte
	methodGetNumArguments   func(m MethodHandle) uint32
	methodCopyReturnType    func(m MethodHandle) *byte
	methodCopyArgumentType  func(m MethodHandle, index uint32) *byte
	methodGetDescription    func(m MethodHandle) *methodDescription
	methodSetImplementation func(m MethodHandle, imp IMP) IMP
	methodExchangeImpls     func(m1, m2 MethodHandle)

	// Ivars
	ivarGetName         func(v IvarHandle) *byte
	ivarGetTypeEncoding func(v IvarHandle) *byte
	ivarGetOffset       func(v IvarHandle) uintptr

	// Properties
	propertyGetName            func(p PropertyHandle) *byte
	propertyGetAttributes      func(p PropertyHandle) *byte
	propertyCopyAttributeList  func(p PropertyHandle, outCount *uint32) unsafe.Pointer
	propertyCopyAttributeValue func(p PropertyHandle, name string) *byte

	// Protocols
	getProtocol                  func(name string) ProtocolHandle
	copyProtocolList             func(outCount *uint32) unsafe.Pointer
	allocateProtocol             func(name string) ProtocolHandle
	registerProtocol             func(p ProtocolHandle)
	protocolGetName              func(p ProtocolHandle) *byte
	protocolIsEqual              func(p, other ProtocolHandle) bool
	protocolConformsToProtocol   func(p, other ProtocolHandle) bool
	protocolCopyMethodDescList   func(p ProtocolHandle, required, instance bool, outCount *uint32) unsafe.Pointer
	protocolGetMethodDescription func(p ProtocolHandle, sel SEL, required, instance bool) methodDescription       // darwin only
	protocolGetProperty          func(p ProtocolHandle, name string, required, instance bool) PropertyHandle
	protocolCopyPropertyList     func(p ProtocolHandle, outCount *uint32) unsafe.Pointer
	protocolCopyPropertyList2    func(p ProtocolHandle, outCount *uint32, required, instance bool) unsafe.Pointer // optional
	protocolCopyProtocolList     func(p ProtocolHandle, outCount *uint32) unsafe.Pointer
	protocolAddMethodDescription func(p ProtocolHandle, sel SEL, types string, required, instance bool)
	protocolAddProtocol          func(p, addition ProtocolHandle)
	protocolAddProperty          func(p ProtocolHandle, name string, attrs unsafe.Pointer, count uint32, required, instance bool)

	// Selectors
	selGetName      func(sel SEL) *byte
	selRegisterName func(name string) SEL
	selGetUID       func(name string) SEL
	selIsMapped     func(sel SEL) bool
	selIsEqual      func(a, b SEL) bool

	// Implementations
	impWithBlock   func(block ID) IMP // optional
	impGetBlock    func(imp IMP) ID   // optional
	impRemoveBlock func(imp IMP) bool // optional

	// Objects
	objectGetClass      func(obj ID) ClassHandle
	objectSetClass      func(obj ID, c ClassHandle) ClassHandle
	objectIsClass       func(obj ID) bool                    // optional
	objectGetIvar       func(obj ID, v IvarHandle) ID
	objectSetIvar       func(obj ID, v IvarHandle, value ID)
	objectSetIvarStrong func(obj ID, v IvarHandle, value ID) // optional
	objectDispose       func(obj ID) ID                      // optional
	msgSend             uintptr

	// Images
	copyImageNames         func(outCount *uint32) unsafe.Pointer               // optional
	copyClassNamesForImage func(image string, outCount *uint32) unsafe.Pointer // optional
}

var (
	rt                 runtimeFuncs
	bindingsRegistered bool
	registerErr        error
)

func init() {
	registerBindings()
}

// Load makes sure the runtime is loaded and the function table registered.
// It returns the loader's error when libobjc cannot be opened.
func Load() error {
	if err := bindings.Load(); err != nil {
		return err
	}
	registerBindings()
	if !bindingsRegistered {
		if registerErr != nil {
			return registerErr
		}
		return bindings.ErrNotLoaded
	}
	return nil
}

func registerBindings() {
	if bindingsRegistered {
		return
	}

	// Ensure libobjc is loaded
	if err := bindings.Load(); err != nil {
		return // Lookups report absence until the runtime is available
	}

	lib := bindings.Lib()
	if lib == 0 {
		return
	}

	// RegisterLibFunc panics on a missing symbol. A runtime that lacks part
	// of the core API is treated as not loaded rather than crashing init.
	defer func() {
		if r := recover(); r != nil {
			registerErr = fmt.Errorf("%w: %v", ErrUnsupported, r)
			Logger().Warn("objc runtime is incomplete", zap.Error(registerErr))
		}
	}()

	var t runtimeFuncs

	if !registerOptional(&t.free, lib, "free") {
		purego.RegisterLibFunc(&t.free, purego.RTLD_DEFAULT, "free")
	}

	purego.RegisterLibFunc(&t.getClass, lib, "objc_getClass")
	purego.RegisterLibFunc(&t.lookUpClass, lib, "objc_lookUpClass")
	purego.RegisterLibFunc(&t.getMetaClass, lib, "objc_getMetaClass")
	registerOptional(&t.getRequiredClass, lib, "objc_getRequiredClass")
	registerOptional(&t.copyClassList, lib, "objc_copyClassList")
	purego.RegisterLibFunc(&t.getClassList, lib, "objc_getClassList")

	purego.RegisterLibFunc(&t.classGetName, lib, "class_getName")
	purego.RegisterLibFunc(&t.classIsMetaClass, lib, "class_isMetaClass")
	purego.RegisterLibFunc(&t.classGetSuperclass, lib, "class_getSuperclass")
	purego.RegisterLibFunc(&t.classGetVersion, lib, "class_getVersion")
	purego.RegisterLibFunc(&t.classSetVersion, lib, "class_setVersion")
	purego.RegisterLibFunc(&t.classGetInstanceSize, lib, "class_getInstanceSize")
	registerOptional(&t.classGetImageName, lib, "class_getImageName")
	purego.RegisterLibFunc(&t.classGetIvarLayout, lib, "class_getIvarLayout")
	purego.RegisterLibFunc(&t.classSetIvarLayout, lib, "class_setIvarLayout")
	purego.RegisterLibFunc(&t.classGetWeakIvarLayout, lib, "class_getWeakIvarLayout")
	purego.RegisterLibFunc(&t.classSetWeakIvarLayout, lib, "class_setWeakIvarLayout")

	purego.RegisterLibFunc(&t.classGetInstanceVariable, lib, "class_getInstanceVariable")
	purego.RegisterLibFunc(&t.classGetClassVariable, lib, "class_getClassVariable")
	purego.RegisterLibFunc(&t.classCopyIvarList, lib, "class_copyIvarList")
	purego.RegisterLibFunc(&t.classAddIvar, lib, "class_addIvar")
	purego.RegisterLibFunc(&t.classGetInstanceMethod, lib, "class_getInstanceMethod")
	purego.RegisterLibFunc(&t.classGetClassMethod, lib, "class_getClassMethod")
	purego.RegisterLibFunc(&t.classCopyMethodList, lib, "class_copyMethodList")
	purego.RegisterLibFunc(&t.classAddMethod, lib, "class_addMethod")
	purego.RegisterLibFunc(&t.classReplaceMethod, lib, "class_replaceMethod")
	purego.RegisterLibFunc(&t.classGetMethodImpl, lib, "class_getMethodImplementation")
	if platform.HasStretDispatch {
		registerOptional(&t.classGetMethodImplStret, lib, "class_getMethodImplementation_stret")
	}
	purego.RegisterLibFunc(&t.classRespondsToSelector, lib, "class_respondsToSelector")
	purego.RegisterLibFunc(&t.classConformsToProtocol, lib, "class_conformsToProtocol")
	purego.RegisterLibFunc(&t.classCopyProtocolList, lib, "class_copyProtocolList")
	purego.RegisterLibFunc(&t.classAddProtocol, lib, "class_addProtocol")
	purego.RegisterLibFunc(&t.classGetProperty, lib, "class_getProperty")
	purego.RegisterLibFunc(&t.classCopyPropertyList, lib, "class_copyPropertyList")
	purego.RegisterLibFunc(&t.classAddProperty, lib, "class_addProperty")
	purego.RegisterLibFunc(&t.classReplaceProperty, lib, "class_replaceProperty")
	purego.RegisterLibFunc(&t.classCreateInstance, lib, "class_createInstance")

	purego.RegisterLibFunc(&t.allocateClassPair, lib, "objc_allocateClassPair")
	purego.RegisterLibFunc(&t.registerClassPair, lib, "objc_registerClassPair")
	purego.RegisterLibFunc(&t.disposeClassPair, lib, "objc_disposeClassPair")
	registerOptional(&t.duplicateClass, lib, "objc_duplicateClass")

	purego.RegisterLibFunc(&t.methodGetName, lib, "method_getName")
	purego.RegisterLibFunc(&t.methodGetImplementation, lib, "method_getImplementation")
	purego.RegisterLibFunc(&t.methodGetTypeEncoding, lib, "method_getTypeEncoding")
	purego.RegisterLibFunc(&t.methodGetNumArguments, lib, "method_getNumberOfArguments")
	purego.RegisterLibFunc(&t.methodCopyReturnType, lib, "method_copyReturnType")
	purego.RegisterLibFunc(&t.methodCopyArgumentType, lib, "method_copyArgumentType")
	purego.RegisterLibFunc(&t.methodGetDescription, lib, "method_getDescription")
	purego.RegisterLibFunc(&t.methodSetImplementation, lib, "method_setImplementation")
	purego.RegisterLibFunc(&t.methodExchangeImpls, lib, "method_exchangeImplementations")

	purego.RegisterLibFunc(&t.ivarGetName, lib, "ivar_getName")
	purego.RegisterLibFunc(&t.ivarGetTypeEncoding, lib, "ivar_getTypeEncoding")
	purego.RegisterLibFunc(&t.ivarGetOffset, lib, "ivar_getOffset")

	purego.RegisterLibFunc(&t.propertyGetName, lib, "property_getName")
	purego.RegisterLibFunc(&t.propertyGetAttributes, lib, "property_getAttributes")
	purego.RegisterLibFunc(&t.propertyCopyAttributeList, lib, "property_copyAttributeList")
	purego.RegisterLibFunc(&t.propertyCopyAttributeValue, lib, "property_copyAttributeValue")

	purego.RegisterLibFunc(&t.getProtocol, lib, "objc_getProtocol")
	purego.RegisterLibFunc(&t.copyProtocolList, lib, "objc_copyProtocolList")
	purego.RegisterLibFunc(&t.allocateProtocol, lib, "objc_allocateProtocol")
	purego.RegisterLibFunc(&t.registerProtocol, lib, "objc_registerProtocol")
	purego.RegisterLibFunc(&t.protocolGetName, lib, "protocol_getName")
	purego.RegisterLibFunc(&t.protocolIsEqual, lib, "protocol_isEqual")
	purego.RegisterLibFunc(&t.protocolConformsToProtocol, lib, "protocol_conformsToProtocol")
	purego.RegisterLibFunc(&t.protocolCopyMethodDescList, lib, "protocol_copyMethodDescriptionList")
	if platform.SupportsStructByValue {
		registerOptional(&t.protocolGetMethodDescription, lib, "protocol_getMethodDescription")
	}
	purego.RegisterLibFunc(&t.protocolGetProperty, lib, "protocol_getProperty")
	purego.RegisterLibFunc(&t.protocolCopyPropertyList, lib, "protocol_copyPropertyList")
	registerOptional(&t.protocolCopyPropertyList2, lib, "protocol_copyPropertyList2")
	purego.RegisterLibFunc(&t.protocolCopyProtocolList, lib, "protocol_copyProtocolList")
	purego.RegisterLibFunc(&t.protocolAddMethodDescription, lib, "protocol_addMethodDescription")
	purego.RegisterLibFunc(&t.protocolAddProtocol, lib, "protocol_addProtocol")
	purego.RegisterLibFunc(&t.protocolAddProperty, lib, "protocol_addProperty")

	purego.RegisterLibFunc(&t.selGetName, lib, "sel_getName")
	purego.RegisterLibFunc(&t.selRegisterName, lib, "sel_registerName")
	purego.RegisterLibFunc(&t.selGetUID, lib, "sel_getUid")
	purego.RegisterLibFunc(&t.selIsMapped, lib, "sel_isMapped")
	purego.RegisterLibFunc(&t.selIsEqual, lib, "sel_isEqual")

	registerOptional(&t.impWithBlock, lib, "imp_implementationWithBlock")
	registerOptional(&t.impGetBlock, lib, "imp_getBlock")
	registerOptional(&t.impRemoveBlock, lib, "imp_removeBlock")

	purego.RegisterLibFunc(&t.objectGetClass, lib, "object_getClass")
	purego.RegisterLibFunc(&t.objectSetClass, lib, "object_setClass")
	registerOptional(&t.objectIsClass, lib, "object_isClass")
	purego.RegisterLibFunc(&t.objectGetIvar, lib, "object_getIvar")
	purego.RegisterLibFunc(&t.objectSetIvar, lib, "object_setIvar")
	registerOptional(&t.objectSetIvarStrong, lib, "object_setIvarWithStrongDefault")
	registerOptional(&t.objectDispose, lib, "object_dispose")
	if sym, err := purego.Dlsym(lib, "objc_msgSend"); err == nil {
		t.msgSend = sym
	}

	registerOptional(&t.copyImageNames, lib, "objc_copyImageNames")
	registerOptional(&t.copyClassNamesForImage, lib, "objc_copyClassNamesForImage")

	rt = t
	bindingsRegistered = true
	Logger().Debug("objc bindings registered",
		zap.Bool("copyClassList", t.copyClassList != nil),
		zap.Bool("requiredClass", t.getRequiredClass != nil),
		zap.Bool("blocks", t.impWithBlock != nil))
}

// registerOptional binds fptr to name if lib exports it.
func registerOptional(fptr any, lib uintptr, name string) bool {
	if _, err := purego.Dlsym(lib, name); err != nil {
		Logger().Debug("optional runtime symbol missing", zap.String("symbol", name))
		return false
	}
	purego.RegisterLibFunc(fptr, lib, name)
	return true
}

// IsLoaded reports whether libobjc was opened and its functions registered.
func IsLoaded() bool {
	return bindings.IsLoaded() && bindingsRegistered
}

// ready reports whether the runtime table can be used.
func ready() bool {
	return rt.getClass != nil
}
