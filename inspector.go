//go:build !ios && !android && (amd64 || arm64)

// Package inspector provides typed access to the Objective-C runtime without
// CGO, using purego to load libobjc at run time.
//
// For most use cases, use the facade: Init, LookupClass, Describe and the
// re-exported types. The objc package holds the complete wrapper set,
// including two-phase class construction and method implementation
// replacement. The typeenc package parses the runtime's type encodings.
package inspector

import (
	"github.com/obinnaokechukwu/inspector/internal/bindings"
	"github.com/obinnaokechukwu/inspector/objc"
)

// Init loads the Objective-C runtime and registers its functions.
// The package loads the runtime automatically when first imported; Init
// reports why that failed. It is safe to call multiple times.
func Init() error {
	return objc.Load()
}

// IsLoaded returns true if the runtime has been successfully loaded.
func IsLoaded() bool {
	return objc.IsLoaded()
}

// LibraryPath returns the path libobjc was loaded from, or "" if it was not.
func LibraryPath() string {
	return bindings.Path()
}

// Status returns a human-readable description of the runtime library state.
func Status() string {
	return bindings.Status()
}

// FindLibrary returns the path libobjc would be loaded from, without
// loading it.
func FindLibrary() (string, error) {
	return bindings.FindLibrary()
}

// InstallInstructions returns platform-specific instructions for installing
// an Objective-C runtime.
func InstallInstructions() string {
	return bindings.InstallInstructions()
}

// Environment variables consulted when locating libobjc.
const (
	EnvLibrary    = bindings.EnvLibrary
	EnvLibraryDir = bindings.EnvLibraryDir
)

// Re-export common types for convenience
type (
	// Class is a registered class.
	Class = objc.Class

	// Method is a method of a class.
	Method = objc.Method

	// Ivar is an instance variable of a class.
	Ivar = objc.Ivar

	// Property is a declared property.
	Property = objc.Property

	// PropertyAttribute is one attribute of a property declaration.
	PropertyAttribute = objc.PropertyAttribute

	// Protocol is a registered protocol.
	Protocol = objc.Protocol

	// Selector is a registered method name.
	Selector = objc.Selector

	// IMP is a method implementation pointer.
	IMP = objc.IMP

	// Object is an instance pointer.
	Object = objc.Object

	// ClassBuilder is a class that has been allocated but not registered.
	ClassBuilder = objc.ClassBuilder

	// MethodDescription names a method and its type encoding.
	MethodDescription = objc.MethodDescription
)

// LookupClass returns the named class, or nil if no such class is
// registered.
func LookupClass(name string) *Class {
	return objc.GetClass(name)
}

// Classes returns every registered class.
func Classes() ([]*Class, error) {
	return objc.ClassList()
}

// LookupProtocol returns the named protocol, or nil.
func LookupProtocol(name string) *Protocol {
	return objc.GetProtocol(name)
}

// Sel registers name as a selector and returns it.
func Sel(name string) Selector {
	return objc.RegisterSelector(name)
}
