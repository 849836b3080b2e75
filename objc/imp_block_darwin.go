//go:build darwin && (amd64 || arm64)

package objc

import (
	"fmt"
	"reflect"

	pobjc "github.com/ebitengine/purego/objc"
	"go.uber.org/zap"

	"github.com/obinnaokechukwu/inspector/internal/handles"
)

var blockType = reflect.TypeOf(pobjc.Block(0))

// IMPWithBlock creates an implementation that calls a block built from fn.
// fn's first parameter must be the purego objc.Block itself, followed by the
// receiver and the message arguments; there is no selector argument.
func IMPWithBlock(fn any) (imp IMP, err error) {
	if rt.impWithBlock == nil {
		return 0, ErrUnsupported
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return 0, fmt.Errorf("%w: %T is not a function", ErrInvalidIMP, fn)
	}
	if t := v.Type(); t.NumIn() < 1 || t.In(0) != blockType {
		return 0, fmt.Errorf("%w: %s must start with objc.Block", ErrInvalidIMP, t)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidIMP, r)
		}
	}()
	block := pobjc.NewBlock(fn)
	imp = rt.impWithBlock(ID(block))
	if imp == 0 {
		block.Release()
		return 0, ErrNullHandle
	}
	handles.Bind(uintptr(imp), fn)
	Logger().Debug("block implementation created",
		zap.Uintptr("imp", uintptr(imp)),
		zap.Int("bound", handles.Count()))
	return imp, nil
}
