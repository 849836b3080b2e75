//go:build !ios && !android && (amd64 || arm64)

package translate

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringAbsent(t *testing.T) {
	fc := newFreeCounter()
	for _, own := range []Ownership{Borrowed, Owned} {
		s, ok, err := String(nil, own, fc.free)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, s)
	}
	assert.Zero(t, fc.total())
}

func TestStringBorrowedNeverReleased(t *testing.T) {
	fc := newFreeCounter()
	b := CString("NSObject")

	s, ok, err := String(&b[0], Borrowed, fc.free)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "NSObject", s)
	assert.Zero(t, fc.total())
}

func TestStringOwnedReleasedOnce(t *testing.T) {
	fc := newFreeCounter()
	b := CString("v16@0:8")
	p := unsafe.Pointer(&b[0])

	s, ok, err := String(&b[0], Owned, fc.free)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v16@0:8", s)
	assert.Equal(t, 1, fc.count(p))
}

func TestStringIsCopied(t *testing.T) {
	b := CString("abc")
	s, _, err := String(&b[0], Borrowed, nil)
	require.NoError(t, err)
	b[0] = 'x'
	assert.Equal(t, "abc", s)
}

func TestStringEmptyIsPresent(t *testing.T) {
	b := CString("")
	s, ok, err := String(&b[0], Borrowed, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, s)
}

func TestStringInvalidUTF8(t *testing.T) {
	fc := newFreeCounter()
	b := []byte{'o', 'k', 0xff, 0xfe, 'z', 0}
	p := unsafe.Pointer(&b[0])

	s, ok, err := String(&b[0], Owned, fc.free)
	assert.True(t, ok, "unreadable text is still present")
	assert.Empty(t, s)
	require.ErrorIs(t, err, ErrInvalidText)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2, de.Offset)
	assert.Equal(t, []byte{'o', 'k', 0xff, 0xfe, 'z'}, de.Raw, "no truncation")
	assert.Equal(t, 1, fc.count(p))
}

func TestBytes(t *testing.T) {
	assert.Nil(t, Bytes(nil))

	b := []byte{0x11, 0x02, 0xff, 0}
	out := Bytes(&b[0])
	assert.Equal(t, []byte{0x11, 0x02, 0xff}, out)
	b[0] = 0
	assert.Equal(t, byte(0x11), out[0])
}

func TestOwnershipString(t *testing.T) {
	assert.Equal(t, "borrowed", Borrowed.String())
	assert.Equal(t, "owned", Owned.String())
}
