//go:build !ios && !android && (amd64 || arm64)

package inspector

import (
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/inspector/internal/bindings"
	"github.com/obinnaokechukwu/inspector/objc"
)

// SetLogger configures the logger used by the loader and the runtime
// wrappers. Passing nil restores the no-op logger.
//
// The runtime is loaded when the package is imported, before SetLogger can
// run. Use Status to see how that load went.
func SetLogger(l *zap.Logger) {
	bindings.SetLogger(l)
	objc.SetLogger(l)
}

// Logger returns the logger currently used by the runtime wrappers.
func Logger() *zap.Logger {
	return objc.Logger()
}
