//go:build !ios && !android && (amd64 || arm64)

package typeenc

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrSyntax is wrapped by every SyntaxError.
var ErrSyntax = errors.New("typeenc: invalid type encoding")

// SyntaxError reports where an encoding stopped making sense.
type SyntaxError struct {
	Encoding string
	Offset   int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("typeenc: %s at offset %d in %q", e.Msg, e.Offset, e.Encoding)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

const (
	pointerSize = 8
	// Nesting limit for pointers, arrays and aggregates.
	maxDepth = 64
	// Largest type size accepted; far beyond any addressable object.
	maxTypeSize = uintptr(1) << 48
	// Widest bitfield; no integer type is wider.
	maxBitfieldWidth = 128
)

var qualifierNames = map[byte]string{
	'r': "const",
	'n': "in",
	'N': "inout",
	'o': "out",
	'O': "bycopy",
	'R': "byref",
	'V': "oneway",
}

type scalar struct {
	kind  Kind
	size  uintptr
	align uintptr
}

var scalars = map[byte]scalar{
	'c': {Char, 1, 1},
	'C': {UChar, 1, 1},
	's': {Short, 2, 2},
	'S': {UShort, 2, 2},
	'i': {Int, 4, 4},
	'I': {UInt, 4, 4},
	'l': {Long, 4, 4}, // 'l' is always 32 bits; 64-bit long encodes as 'q'
	'L': {ULong, 4, 4},
	'q': {LongLong, 8, 8},
	'Q': {ULongLong, 8, 8},
	't': {Int128, 16, 16},
	'T': {UInt128, 16, 16},
	'f': {Float, 4, 4},
	'd': {Double, 8, 8},
	'D': {LongDouble, 16, 16},
	'B': {Bool, 1, 1},
	'v': {Void, 0, 0},
	'*': {CString, pointerSize, pointerSize},
	'#': {Class, pointerSize, pointerSize},
	':': {Selector, pointerSize, pointerSize},
	'?': {Unknown, 0, 0},
}

type parser struct {
	enc string
	pos int
}

// Parse parses a single type encoding. Trailing characters are an error.
func Parse(enc string) (*Type, error) {
	p := &parser{enc: enc}
	t, err := p.parseType(0, false)
	if err != nil {
		return nil, err
	}
	if p.pos != len(enc) {
		return nil, p.errorf("unexpected trailing %q", enc[p.pos:])
	}
	return t, nil
}

// ParseMethod parses a method type encoding: the return type, an optional
// frame size, then each argument followed by its optional offset.
func ParseMethod(enc string) (*Signature, error) {
	p := &parser{enc: enc}
	ret, err := p.parseType(0, false)
	if err != nil {
		return nil, err
	}
	sig := &Signature{Return: ret}
	sig.FrameSize, _ = p.parseOffset()

	for p.pos < len(enc) {
		t, err := p.parseType(0, false)
		if err != nil {
			return nil, err
		}
		off, _ := p.parseOffset()
		sig.Args = append(sig.Args, Arg{Type: t, Offset: off})
	}
	return sig, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Encoding: p.enc, Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.enc) {
		return 0, false
	}
	return p.enc[p.pos], true
}

// parseOffset consumes a frame offset such as "16", "-8" or GCC's "+8".
func (p *parser) parseOffset() (int, bool) {
	start := p.pos
	if c, ok := p.peek(); ok && (c == '-' || c == '+') {
		p.pos++
	}
	digits := p.pos
	for p.pos < len(p.enc) && isDigit(p.enc[p.pos]) {
		p.pos++
	}
	if p.pos == digits {
		p.pos = start
		return 0, false
	}
	n, err := strconv.Atoi(p.enc[start:p.pos])
	if err != nil {
		p.pos = start
		return 0, false
	}
	return n, true
}

func (p *parser) parseNumber() (int, error) {
	start := p.pos
	for p.pos < len(p.enc) && isDigit(p.enc[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return 0, p.errorf("expected a number")
	}
	n, err := strconv.Atoi(p.enc[start:p.pos])
	if err != nil {
		p.pos = start
		return 0, p.errorf("number out of range")
	}
	return n, nil
}

// parseType parses one type. named is set inside an aggregate whose fields
// carry quoted names, which changes how a quoted class name after '@' is
// read.
func (p *parser) parseType(depth int, named bool) (*Type, error) {
	if depth > maxDepth {
		return nil, p.errorf("nesting too deep")
	}

	var quals []string
	for {
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unexpected end of encoding")
		}
		q, isQual := qualifierNames[c]
		if !isQual {
			break
		}
		quals = append(quals, q)
		p.pos++
	}

	t, err := p.parseBare(depth, named)
	if err != nil {
		return nil, err
	}
	t.Qualifiers = quals
	return t, nil
}

func (p *parser) parseBare(depth int, named bool) (*Type, error) {
	c, _ := p.peek()
	p.pos++

	if s, ok := scalars[c]; ok {
		return &Type{Kind: s.kind, Size: s.size, Align: s.align}, nil
	}

	switch c {
	case '@':
		return p.parseObject(named)
	case '^':
		elem, err := p.parseType(depth+1, false)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: Pointer, Elem: elem, Size: pointerSize, Align: pointerSize}, nil
	case '[':
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		elem, err := p.parseType(depth+1, false)
		if err != nil {
			return nil, err
		}
		if c, ok := p.peek(); !ok || c != ']' {
			return nil, p.errorf("unterminated array")
		}
		if n != 0 && elem.Size > maxTypeSize/uintptr(n) {
			return nil, p.errorf("array of %d elements is too large", n)
		}
		p.pos++
		return &Type{Kind: Array, Elem: elem, Len: n, Size: uintptr(n) * elem.Size, Align: elem.Align}, nil
	case '{':
		return p.parseAggregate(Struct, '}', depth)
	case '(':
		return p.parseAggregate(Union, ')', depth)
	case 'b':
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		if n > maxBitfieldWidth {
			return nil, p.errorf("bitfield width %d too large", n)
		}
		return &Type{Kind: Bitfield, Len: n, Size: uintptr(n+7) / 8, Align: 1}, nil
	case 'j':
		elem, err := p.parseType(depth+1, false)
		if err != nil {
			return nil, err
		}
		if elem.Size > maxTypeSize/2 {
			return nil, p.errorf("complex type is too large")
		}
		return &Type{Kind: Complex, Elem: elem, Size: 2 * elem.Size, Align: elem.Align}, nil
	case 'A':
		elem, err := p.parseType(depth+1, false)
		if err != nil {
			return nil, err
		}
		return &Type{Kind: Atomic, Elem: elem, Size: elem.Size, Align: elem.Align}, nil
	}

	p.pos--
	return nil, p.errorf("unknown type code %q", c)
}

func (p *parser) parseObject(named bool) (*Type, error) {
	t := &Type{Kind: Object, Size: pointerSize, Align: pointerSize}
	c, ok := p.peek()
	if !ok {
		return t, nil
	}
	if c == '?' {
		p.pos++
		t.Kind = Block
		return t, nil
	}
	if c != '"' {
		return t, nil
	}

	end := p.pos + 1
	for end < len(p.enc) && p.enc[end] != '"' {
		end++
	}
	if end >= len(p.enc) {
		return nil, p.errorf("unterminated class name")
	}
	if named {
		// In a named aggregate the quote may open the next field's name.
		// It is a class name only if another name or the closing brace
		// follows.
		if end+1 < len(p.enc) {
			next := p.enc[end+1]
			if next != '"' && next != '}' && next != ')' {
				return t, nil
			}
		}
	}
	t.Name = p.enc[p.pos+1 : end]
	p.pos = end + 1
	return t, nil
}

func (p *parser) parseAggregate(kind Kind, closer byte, depth int) (*Type, error) {
	t := &Type{Kind: kind}

	// Tag, up to '=' or the closer.
	start := p.pos
	for {
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated %s", kind)
		}
		if c == '=' || c == closer {
			break
		}
		p.pos++
	}
	t.Name = p.enc[start:p.pos]

	if c, _ := p.peek(); c == '=' {
		p.pos++
		named := false
		if c, ok := p.peek(); ok && c == '"' {
			named = true
		}
		for {
			c, ok := p.peek()
			if !ok {
				return nil, p.errorf("unterminated %s", kind)
			}
			if c == closer {
				break
			}
			var fname string
			if named {
				if c != '"' {
					return nil, p.errorf("expected field name")
				}
				end := p.pos + 1
				for end < len(p.enc) && p.enc[end] != '"' {
					end++
				}
				if end >= len(p.enc) {
					return nil, p.errorf("unterminated field name")
				}
				fname = p.enc[p.pos+1 : end]
				p.pos = end + 1
			}
			ft, err := p.parseType(depth+1, named)
			if err != nil {
				return nil, err
			}
			t.Fields = append(t.Fields, Field{Name: fname, Type: ft})
		}
	}
	p.pos++ // closer

	if !layout(t) {
		return nil, p.errorf("%s %s is too large", kind, t.Name)
	}
	return t, nil
}

// layout computes size and alignment with C rules. Runs of bitfields share
// 32-bit storage units. It reports false if the size exceeds maxTypeSize.
func layout(t *Type) bool {
	var size, align uintptr = 0, 1
	if len(t.Fields) == 0 {
		t.Size, t.Align = 0, 1
		return true
	}

	if t.Kind == Union {
		for _, f := range t.Fields {
			fs, fa := f.Type.Size, f.Type.Align
			if f.Type.Kind == Bitfield {
				fs, fa = 4, 4
			}
			size = max(size, fs)
			align = max(align, fa)
		}
		t.Size, t.Align = roundUp(size, align), align
		return true
	}

	bits := 0
	flushBits := func() {
		if bits > 0 {
			size = roundUp(size, 4) + uintptr((bits+31)/32)*4
			align = max(align, 4)
			bits = 0
		}
	}
	for _, f := range t.Fields {
		if f.Type.Kind == Bitfield {
			bits += f.Type.Len
			continue
		}
		flushBits()
		fa := max(f.Type.Align, 1)
		size = roundUp(size, fa) + f.Type.Size
		align = max(align, fa)
		if size > maxTypeSize {
			return false
		}
	}
	flushBits()
	if size > maxTypeSize {
		return false
	}
	t.Size, t.Align = roundUp(size, align), align
	return true
}

func roundUp(n, align uintptr) uintptr {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
