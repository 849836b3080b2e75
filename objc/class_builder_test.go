//go:build !ios && !android && (amd64 || arm64)

package objc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinnaokechukwu/inspector/typeenc"
)

func TestAllocateRegisterDispose(t *testing.T) {
	f := installFake(t)
	f.addClass("NSObject", 0, 8)
	super := GetClass("NSObject")

	b := AllocateClass(super, "Point3", 0)
	require.NotNil(t, b)
	assert.Equal(t, "Point3", b.Name())
	assert.Nil(t, AllocateClass(super, "Point3", 0), "the name is taken")

	ok, err := b.AddIvarOf("a", "q")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = b.AddIvarOf("b", "q")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, b.AddIvar("c", 8, 3, "q"))
	assert.True(t, b.AddMethod(RegisterSelector("norm"), 0x100, "d16@0:8"))
	assert.True(t, b.AddClassMethod(RegisterSelector("origin"), 0x200, "@16@0:8"))
	assert.True(t, b.SetIvarLayout([]byte{0x01}))
	assert.True(t, b.SetWeakIvarLayout(nil))

	cls, err := b.Register()
	require.NoError(t, err)
	require.NotNil(t, cls)
	assert.Equal(t, 1, f.callCount("objc_registerClassPair"))

	name, err := cls.Name()
	require.NoError(t, err)
	assert.Equal(t, "Point3", name)
	assert.Equal(t, uintptr(32), cls.InstanceSize())
	assert.Equal(t, []byte{0x01}, cls.IvarLayout())
	assert.Nil(t, cls.WeakIvarLayout())
	assert.True(t, cls.Superclass().Equal(super))

	ivars, err := cls.Ivars()
	require.NoError(t, err)
	var offsets []uintptr
	for _, v := range ivars {
		offsets = append(offsets, v.Offset())
	}
	assert.Equal(t, []uintptr{8, 16, 24}, offsets)

	meta := GetMetaClass("Point3")
	require.NotNil(t, meta)
	assert.NotNil(t, meta.InstanceMethod(RegisterSelector("origin")))

	require.NoError(t, cls.Dispose())
	assert.Equal(t, 1, f.callCount("objc_disposeClassPair"))
	assert.Nil(t, GetClass("Point3"))
	assert.Zero(t, cls.Handle())
}

func TestAllocatedClassDisposeOnce(t *testing.T) {
	f := installFake(t)
	f.addClass("NSObject", 0, 8)

	b := AllocateClass(GetClass("NSObject"), "Transient", 0)
	require.NotNil(t, b)
	cls, err := b.Register()
	require.NoError(t, err)

	require.NoError(t, cls.Dispose())
	assert.ErrorIs(t, cls.Dispose(), ErrConsumed)
	assert.ErrorIs(t, cls.Dispose(), ErrConsumed)
	assert.Equal(t, 1, f.callCount("objc_disposeClassPair"))
}

func TestBuilderSpentAfterRegister(t *testing.T) {
	f := installFake(t)
	f.addClass("NSObject", 0, 8)

	b := AllocateClass(GetClass("NSObject"), "Widget", 0)
	require.NotNil(t, b)
	_, err := b.Register()
	require.NoError(t, err)

	assert.False(t, b.AddIvar("late", 8, 3, "q"))
	ok, err := b.AddIvarOf("late", "q")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, b.AddMethod(RegisterSelector("late"), 0x1, "v16@0:8"))
	assert.False(t, b.AddClassMethod(RegisterSelector("late"), 0x1, "v16@0:8"))
	assert.False(t, b.AddProtocol(nil))
	assert.False(t, b.AddProperty("late", nil))
	assert.False(t, b.SetIvarLayout(nil))
	assert.False(t, b.SetWeakIvarLayout(nil))

	_, err = b.Register()
	assert.ErrorIs(t, err, ErrConsumed)
	assert.ErrorIs(t, b.Dispose(), ErrConsumed)
	assert.Equal(t, 1, f.callCount("objc_registerClassPair"))
	assert.Zero(t, f.callCount("objc_disposeClassPair"))
}

func TestBuilderDisposeUnregistered(t *testing.T) {
	f := installFake(t)

	b := AllocateClass(nil, "Scratch", 0)
	require.NotNil(t, b)
	require.NoError(t, b.Dispose())
	assert.Equal(t, 1, f.callCount("objc_disposeClassPair"))

	_, err := b.Register()
	assert.ErrorIs(t, err, ErrConsumed)
	assert.NotNil(t, AllocateClass(nil, "Scratch", 0), "the name is free again")
}

func TestAddIvarOfRejectsBadEncoding(t *testing.T) {
	f := installFake(t)
	b := AllocateClass(nil, "Widget", 0)
	require.NotNil(t, b)

	_, err := b.AddIvarOf("x", "{broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ivar x")

	_, err = b.AddIvarOf("v", "v")
	assert.Error(t, err, "void has no storage")

	for _, enc := range []string{"[4611686018427387904q]", "[99999999999999999999i]"} {
		_, err = b.AddIvarOf("huge", enc)
		assert.ErrorIs(t, err, typeenc.ErrSyntax, enc)
	}
	assert.Zero(t, f.callCount("class_addIvar"))
}

func TestAllocateUniqueClass(t *testing.T) {
	installFake(t)

	a := AllocateUniqueClass(nil, "Proxy", 0)
	b := AllocateUniqueClass(nil, "Proxy", 0)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.True(t, strings.HasPrefix(a.Name(), "Proxy_"))
	assert.NotEqual(t, a.Name(), b.Name())
	assert.NotContains(t, a.Name(), "-", "class names must be identifiers")
}

func TestCreateInstance(t *testing.T) {
	f := installFake(t)
	f.addClass("Widget", 0, 8)

	obj := GetClass("Widget").CreateInstance(0)
	assert.False(t, obj.IsNil())
}
