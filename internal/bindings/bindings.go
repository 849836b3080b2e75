//go:build !ios && !android && (amd64 || arm64)

// Package bindings handles locating and loading the Objective-C runtime
// library (libobjc) with purego.
//
// The library is searched for in the following locations (in order):
//  1. INSPECTOR_LIBOBJC environment variable (full path to the library)
//  2. INSPECTOR_LIBOBJC_DIR environment variable
//  3. The platform's system runtime (/usr/lib/libobjc.A.dylib on macOS)
//  4. LD_LIBRARY_PATH / DYLD_LIBRARY_PATH / PATH
//  5. Standard library paths (/usr/local/lib, /usr/lib, etc.)
//  6. The dynamic linker's default search (bare library name)
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/inspector/internal/platform"
)

// ErrNotLoaded is returned when runtime functions are called before Load().
var ErrNotLoaded = errors.New("inspector: Objective-C runtime not loaded; call inspector.Init() first")

// ErrLibraryNotFound is returned when libobjc cannot be found.
var ErrLibraryNotFound = errors.New("inspector: Objective-C runtime library not found")

const (
	// EnvLibrary names an explicit libobjc path.
	EnvLibrary = "INSPECTOR_LIBOBJC"
	// EnvLibraryDir names an extra directory searched before the defaults.
	EnvLibraryDir = "INSPECTOR_LIBOBJC_DIR"
)

// Sonames tried for libobjc, newest first. GNUstep libobjc2 and GCC's
// libobjc both ship as libobjc.so.4.
var libobjcVersions = []int{4, 3, 2}

var (
	libObjC uintptr
	libPath string

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// IsLoaded returns true if libobjc has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load locates and opens libobjc.
// It is safe to call multiple times; subsequent calls are no-ops.
// Returns an error if the library cannot be found or loaded.
func Load() error {
	loadOnce.Do(func() {
		loadErr = doLoad()
		if loadErr == nil {
			loaded = true
			Logger().Debug("objc runtime loaded",
				zap.String("path", libPath),
				zap.Stringer("flavor", platform.RuntimeFlavor))
			return
		}
		Logger().Warn("objc runtime unavailable", zap.Error(loadErr))
	})
	return loadErr
}

func doLoad() error {
	if explicit := os.Getenv(EnvLibrary); explicit != "" {
		lib, err := tryOpen(explicit)
		if err != nil {
			return fmt.Errorf("%w: %s=%s: %v", ErrLibraryNotFound, EnvLibrary, explicit, err)
		}
		libObjC, libPath = lib, explicit
		return nil
	}

	path, lib, err := loadLibrary("objc", libobjcVersions)
	if err != nil {
		return fmt.Errorf("loading libobjc: %w", err)
	}
	libObjC, libPath = lib, path
	return nil
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (string, uintptr, error) {
	for _, candidate := range candidatePaths(name, versions) {
		lib, err := tryOpen(candidate)
		if err == nil {
			return candidate, lib, nil
		}
	}
	return "", 0, fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// candidatePaths lists every path loadLibrary tries, in order.
func candidatePaths(name string, versions []int) []string {
	var out []string
	out = append(out, platform.SystemRuntimePaths()...)

	for _, searchPath := range LibrarySearchPaths() {
		// Try versioned names first (more specific)
		for _, ver := range versions {
			out = append(out, filepath.Join(searchPath, platform.FormatLibraryName(name, ver)))
		}
		out = append(out, filepath.Join(searchPath, platform.FormatLibraryName(name, 0)))
	}

	// Let the system find it
	for _, ver := range versions {
		out = append(out, platform.FormatLibraryName(name, ver))
	}
	out = append(out, platform.FormatLibraryName(name, 0))
	return out
}

// tryOpen attempts to open a library with RTLD_NOW | RTLD_GLOBAL.
// RTLD_GLOBAL keeps the runtime's symbols visible to frameworks loaded later.
func tryOpen(path string) (uintptr, error) {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, err
	}
	return lib, nil
}

// FindLibrary searches for libobjc and returns its full path without
// opening it. This is useful for diagnostics.
func FindLibrary() (string, error) {
	if explicit := os.Getenv(EnvLibrary); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s=%s", ErrLibraryNotFound, EnvLibrary, explicit)
		}
		return explicit, nil
	}
	for _, candidate := range candidatePaths("objc", libobjcVersions) {
		if !filepath.IsAbs(candidate) {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: objc", ErrLibraryNotFound)
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	if dir := os.Getenv(EnvLibraryDir); dir != "" {
		paths = append(paths, dir)
	}

	switch runtime.GOOS {
	case "linux":
		// Check LD_LIBRARY_PATH first
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		// Standard paths
		paths = append(paths,
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/local/lib",
			"/usr/lib",
			"/usr/GNUstep/System/Library/Libraries",
			"/lib/x86_64-linux-gnu",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths, "/usr/lib")

	case "windows":
		if winPath := os.Getenv("PATH"); winPath != "" {
			paths = append(paths, filepath.SplitList(winPath)...)
		}
		// Executable directory
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		paths = append(paths, "C:\\GNUstep\\bin")

	case "freebsd":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib",
		)
	}

	return paths
}

// Lib returns the libobjc handle, or 0 if not loaded.
func Lib() uintptr {
	return libObjC
}

// Path returns the path libobjc was loaded from, or empty string if not loaded.
func Path() string {
	return libPath
}

// Status returns a human-readable status of the runtime library.
// Useful for diagnostics and logging.
func Status() string {
	if loaded {
		return fmt.Sprintf("loaded from %s (%s runtime)", libPath, platform.RuntimeFlavor)
	}
	if loadErr != nil {
		return fmt.Sprintf("not loaded: %s", loadErr)
	}
	return "not loaded (Load() not called)"
}

// InstallInstructions returns platform-specific instructions for installing
// an Objective-C runtime.
func InstallInstructions() string {
	switch runtime.GOOS {
	case "linux":
		return `To install an Objective-C runtime on Linux:
  Debian/Ubuntu: sudo apt install libobjc-12-dev   (GCC runtime)
             or: sudo apt install gnustep-base-runtime libobjc2  (GNUstep runtime)
  Or point inspector at a custom build:
     export INSPECTOR_LIBOBJC=/path/to/libobjc.so.4`
	case "darwin":
		return "The Objective-C runtime ships with macOS at /usr/lib/libobjc.A.dylib."
	case "windows":
		return `To use inspector on Windows:
  1. Build or install GNUstep libobjc2 (objc.dll)
  2. Copy objc.dll next to your executable or set INSPECTOR_LIBOBJC_DIR`
	default:
		return fmt.Sprintf("Platform %s/%s has no known Objective-C runtime package", runtime.GOOS, runtime.GOARCH)
	}
}
