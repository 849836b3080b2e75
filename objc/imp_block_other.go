//go:build !darwin && !ios && !android && (amd64 || arm64)

package objc

// IMPWithBlock needs the block ABI helpers that purego only provides on
// macOS.
func IMPWithBlock(fn any) (IMP, error) {
	return 0, ErrUnsupported
}
