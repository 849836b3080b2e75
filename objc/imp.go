//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"fmt"
	"reflect"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/inspector/internal/handles"
)

// IMP is a pointer to a method implementation. The runtime calls it with
// the receiver and selector first, followed by the message arguments.
type IMP uintptr

var (
	idType  = reflect.TypeOf(ID(0))
	selType = reflect.TypeOf(SEL(0))

	// newCallback mints C-callable function pointers for Go functions.
	newCallback = purego.NewCallback
)

// NewIMP turns a Go function into a method implementation. fn's first two
// parameters must be ID and SEL; the remaining parameters and the result
// follow purego's callback rules (integers, pointers, floats).
//
// The function stays reachable for the life of the process and is returned
// unchanged by IMP.Func. Callbacks are a finite resource in purego, so
// create implementations once and reuse them.
func NewIMP(fn any) (imp IMP, err error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return 0, fmt.Errorf("%w: %T is not a function", ErrInvalidIMP, fn)
	}
	t := v.Type()
	if t.NumIn() < 2 || t.In(0) != idType || t.In(1) != selType {
		return 0, fmt.Errorf("%w: %s must start with (objc.ID, objc.SEL)", ErrInvalidIMP, t)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidIMP, r)
		}
	}()
	ptr := newCallback(fn)
	handles.Bind(ptr, fn)
	Logger().Debug("implementation created",
		zap.Uintptr("imp", ptr),
		zap.Stringer("signature", t),
		zap.Int("bound", handles.Count()))
	return IMP(ptr), nil
}

// IsNil reports whether imp is NULL.
func (imp IMP) IsNil() bool {
	return imp == 0
}

// Func returns the Go value imp was created from with NewIMP or
// IMPWithBlock, or nil for implementations that came from the runtime.
func (imp IMP) Func() any {
	return handles.Lookup(uintptr(imp))
}

// Block returns the block behind an implementation made from a block, or 0.
func (imp IMP) Block() (ID, error) {
	if rt.impGetBlock == nil {
		return 0, ErrUnsupported
	}
	return rt.impGetBlock(imp), nil
}

// RemoveBlock disassociates a block from an implementation created with
// IMPWithBlock and releases the runtime's copy of the block.
func (imp IMP) RemoveBlock() (bool, error) {
	if rt.impRemoveBlock == nil {
		return false, ErrUnsupported
	}
	ok := rt.impRemoveBlock(imp)
	if ok && handles.Unbind(uintptr(imp)) {
		Logger().Debug("block implementation removed",
			zap.Uintptr("imp", uintptr(imp)),
			zap.Int("bound", handles.Count()))
	}
	return ok, nil
}

func (imp IMP) String() string {
	return fmt.Sprintf("IMP(%#x)", uintptr(imp))
}
