//go:build !ios && !android && (amd64 || arm64)

// Package platform provides platform detection and capabilities for inspector.
// It determines which Objective-C runtime flavour is expected and what the
// purego calling layer can do on the current operating system and architecture.
package platform

import (
	"fmt"
	"runtime"
)

// Flavor identifies the Objective-C runtime implementation.
type Flavor int

const (
	// FlavorApple is Apple's objc4 runtime shipped with macOS.
	FlavorApple Flavor = iota
	// FlavorGNU is the GNUstep libobjc2 runtime (Linux, FreeBSD, Windows).
	FlavorGNU
)

// String returns the runtime flavour name.
func (f Flavor) String() string {
	switch f {
	case FlavorApple:
		return "apple"
	case FlavorGNU:
		return "gnustep"
	default:
		return fmt.Sprintf("flavor(%d)", int(f))
	}
}

// RuntimeFlavor is the runtime implementation expected on this platform.
var RuntimeFlavor = FlavorGNU

// SupportsStructByValue indicates whether the platform supports passing/returning
// structs by value through purego. Only Darwin (macOS) amd64/arm64 supports this.
// Runtime calls that return objc_method_description by value need it.
const SupportsStructByValue = runtime.GOOS == "darwin" &&
	(runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64")

// HasStretDispatch reports whether the runtime exposes the *_stret lookup
// variants. They only exist on x86_64; arm64 returns structs in registers.
const HasStretDispatch = runtime.GOARCH == "amd64"

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
		RuntimeFlavor = FlavorApple
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default: // linux, freebsd, etc.
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("objc", 4) -> "libobjc.so.4"
//   - macOS:   FormatLibraryName("objc", 0) -> "libobjc.dylib"
//   - Windows: FormatLibraryName("objc", 4) -> "objc-4.dll"
func FormatLibraryName(name string, version int) string {
	switch runtime.GOOS {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s%s-%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	default: // linux, freebsd
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", LibraryPrefix, name, LibraryExtension, version)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	}
}

// SystemRuntimePaths returns absolute locations where the platform ships its
// Objective-C runtime, tried before any search path.
func SystemRuntimePaths() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/usr/lib/libobjc.A.dylib"}
	default:
		return nil
	}
}
