//go:build !ios && !android && (amd64 || arm64)

// Package typeenc parses Objective-C type encodings, the strings the runtime
// uses to describe ivar, property and method types ("i", "@\"NSString\"",
// "{CGPoint=dd}", "v24@0:8@16").
//
// Sizes and alignments follow the LP64 C ABI used by every 64-bit
// Objective-C runtime.
package typeenc

import (
	"fmt"
	"strings"
)

// Kind is the category of an encoded type.
type Kind int

const (
	Invalid Kind = iota
	Void
	Char
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Int128
	UInt128
	Float
	Double
	LongDouble
	Bool
	CString
	Object
	Block
	Class
	Selector
	Pointer
	Array
	Struct
	Union
	Bitfield
	Complex
	Atomic
	Unknown
)

var kindNames = [...]string{
	Invalid:    "invalid",
	Void:       "void",
	Char:       "char",
	UChar:      "unsigned char",
	Short:      "short",
	UShort:     "unsigned short",
	Int:        "int",
	UInt:       "unsigned int",
	Long:       "long",
	ULong:      "unsigned long",
	LongLong:   "long long",
	ULongLong:  "unsigned long long",
	Int128:     "__int128",
	UInt128:    "unsigned __int128",
	Float:      "float",
	Double:     "double",
	LongDouble: "long double",
	Bool:       "bool",
	CString:    "char *",
	Object:     "id",
	Block:      "block",
	Class:      "Class",
	Selector:   "SEL",
	Pointer:    "pointer",
	Array:      "array",
	Struct:     "struct",
	Union:      "union",
	Bitfield:   "bitfield",
	Complex:    "_Complex",
	Atomic:     "_Atomic",
	Unknown:    "?",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type is a parsed type encoding.
type Type struct {
	Kind Kind
	// Name is the struct or union tag, or the class name of an object type.
	Name string
	// Qualifiers are the method qualifiers that preceded the type, in order
	// (const, in, inout, out, bycopy, byref, oneway).
	Qualifiers []string

	Size  uintptr
	Align uintptr

	// Elem is the pointee, array element, or the wrapped type of a complex
	// or atomic type.
	Elem *Type
	// Len is the array length or the bitfield width.
	Len int
	// Fields are the members of a struct or union. Empty for an opaque
	// reference such as "^{__CFString}".
	Fields []Field
}

// Field is a struct or union member. Name is empty unless the encoding
// carries field names (ivar encodings do, method encodings do not).
type Field struct {
	Name string
	Type *Type
}

// Signature is a parsed method type encoding.
type Signature struct {
	Return *Type
	// FrameSize is the total size of the arguments, if encoded.
	FrameSize int
	Args      []Arg
}

// Arg is one method argument. The first two are self and _cmd.
type Arg struct {
	Type   *Type
	Offset int
}

// String renders t as a C type.
func (t *Type) String() string {
	return t.Declare("")
}

// Declare renders a C declaration of name with type t, e.g.
// "NSString *title" or "char buf[16]". An empty name renders the bare type.
func (t *Type) Declare(name string) string {
	var b strings.Builder
	for _, q := range t.Qualifiers {
		b.WriteString(q)
		b.WriteByte(' ')
	}
	b.WriteString(t.declare(name))
	return b.String()
}

func (t *Type) declare(name string) string {
	join := func(base string) string {
		if name == "" {
			return base
		}
		if strings.HasSuffix(base, "*") {
			return base + name
		}
		return base + " " + name
	}

	switch t.Kind {
	case Object:
		if t.Name != "" {
			return join(t.Name + " *")
		}
		return join("id")
	case Block:
		return "void (^" + name + ")(void)"
	case Pointer:
		if t.Elem.Kind == Unknown {
			return "void (*" + name + ")(void)"
		}
		inner := t.Elem.declare("")
		if strings.HasSuffix(inner, "*") {
			return join(inner + "*")
		}
		return join(inner + " *")
	case Array:
		return t.Elem.declare(fmt.Sprintf("%s[%d]", name, t.Len))
	case Struct, Union:
		tag := t.Kind.String()
		if t.Name != "" && t.Name != "?" {
			return join(tag + " " + t.Name)
		}
		var fields []string
		for _, f := range t.Fields {
			fields = append(fields, f.Type.Declare(f.Name)+";")
		}
		return join(tag + " { " + strings.Join(fields, " ") + " }")
	case Bitfield:
		return fmt.Sprintf("unsigned int %s : %d", name, t.Len)
	case Complex, Atomic:
		return join(t.Kind.String() + " " + t.Elem.declare(""))
	default:
		return join(t.Kind.String())
	}
}
