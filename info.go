//go:build !ios && !android && (amd64 || arm64)

package inspector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/obinnaokechukwu/inspector/objc"
	"github.com/obinnaokechukwu/inspector/typeenc"
)

// IvarInfo contains information about an instance variable.
type IvarInfo struct {
	Name   string
	Types  string
	Offset uintptr
	Decl   string // C declaration, e.g. "NSString *_title"
}

// MethodInfo contains information about a method.
type MethodInfo struct {
	Name        string
	Types       string
	ClassMethod bool
	Decl        string // e.g. "- (void)setTitle:(id)arg0"
}

// PropertyInfo contains information about a declared property.
type PropertyInfo struct {
	Name       string
	Attributes string
}

// ClassInfo is a snapshot of a class's introspectable state.
type ClassInfo struct {
	Name         string
	Superclasses []string // nearest first
	Image        string
	InstanceSize uintptr
	Version      int32
	MetaClass    bool
	Protocols    []string
	Ivars        []IvarInfo
	Methods      []MethodInfo
	Properties   []PropertyInfo
}

// Describe collects a ClassInfo for c. Instance and class methods are both
// listed; methods and properties are sorted by name, ivars by offset.
func Describe(c *Class) (*ClassInfo, error) {
	if c == nil {
		return nil, ErrNullHandle
	}
	name, err := c.Name()
	if err != nil {
		return nil, err
	}
	info := &ClassInfo{
		Name:         name,
		InstanceSize: c.InstanceSize(),
		Version:      c.Version(),
		MetaClass:    c.IsMetaClass(),
	}
	if image, ok, err := c.ImageName(); err == nil && ok {
		info.Image = image
	}

	for s := c.Superclass(); s != nil && len(info.Superclasses) < maxSuperclassDepth; s = s.Superclass() {
		sname, err := s.Name()
		if err != nil {
			return nil, fmt.Errorf("superclass of %s: %w", name, err)
		}
		info.Superclasses = append(info.Superclasses, sname)
	}

	protocols, err := c.Protocols()
	if err != nil {
		return nil, fmt.Errorf("protocols of %s: %w", name, err)
	}
	for _, p := range protocols {
		pname, err := p.Name()
		if err != nil {
			return nil, fmt.Errorf("protocols of %s: %w", name, err)
		}
		info.Protocols = append(info.Protocols, pname)
	}
	sort.Strings(info.Protocols)

	ivars, err := c.Ivars()
	if err != nil {
		return nil, fmt.Errorf("ivars of %s: %w", name, err)
	}
	for _, v := range ivars {
		vi, err := ivarInfo(v)
		if err != nil {
			return nil, fmt.Errorf("ivars of %s: %w", name, err)
		}
		info.Ivars = append(info.Ivars, vi)
	}
	sort.SliceStable(info.Ivars, func(i, j int) bool { return info.Ivars[i].Offset < info.Ivars[j].Offset })

	if err := appendMethods(info, c, false); err != nil {
		return nil, err
	}
	if !info.MetaClass {
		if meta := objc.ObjectOf(objc.ID(c.Handle())).Class(); meta != nil {
			if err := appendMethods(info, meta, true); err != nil {
				return nil, err
			}
		}
	}
	sort.SliceStable(info.Methods, func(i, j int) bool {
		a, b := info.Methods[i], info.Methods[j]
		if a.ClassMethod != b.ClassMethod {
			return a.ClassMethod
		}
		return a.Name < b.Name
	})

	props, err := c.Properties()
	if err != nil {
		return nil, fmt.Errorf("properties of %s: %w", name, err)
	}
	for _, p := range props {
		pname, err := p.Name()
		if err != nil {
			return nil, fmt.Errorf("properties of %s: %w", name, err)
		}
		attrs, _, err := p.Attributes()
		if err != nil {
			return nil, fmt.Errorf("property %s.%s: %w", name, pname, err)
		}
		info.Properties = append(info.Properties, PropertyInfo{Name: pname, Attributes: attrs})
	}
	sort.Slice(info.Properties, func(i, j int) bool { return info.Properties[i].Name < info.Properties[j].Name })

	return info, nil
}

// Guards against a corrupted superclass chain.
const maxSuperclassDepth = 256

func ivarInfo(v *Ivar) (IvarInfo, error) {
	name, _, err := v.Name()
	if err != nil {
		return IvarInfo{}, err
	}
	types, _, err := v.TypeEncoding()
	if err != nil {
		return IvarInfo{}, fmt.Errorf("ivar %s: %w", name, err)
	}
	return IvarInfo{
		Name:   name,
		Types:  types,
		Offset: v.Offset(),
		Decl:   DeclareIvar(name, types),
	}, nil
}

func appendMethods(info *ClassInfo, c *Class, classMethods bool) error {
	methods, err := c.Methods()
	if err != nil {
		return fmt.Errorf("methods of %s: %w", info.Name, err)
	}
	for _, m := range methods {
		sel, err := m.Name().Name()
		if err != nil {
			return fmt.Errorf("methods of %s: %w", info.Name, err)
		}
		types, _, err := m.TypeEncoding()
		if err != nil {
			return fmt.Errorf("method %s: %w", sel, err)
		}
		info.Methods = append(info.Methods, MethodInfo{
			Name:        sel,
			Types:       types,
			ClassMethod: classMethods,
			Decl:        DeclareMethod(sel, types, classMethods),
		})
	}
	return nil
}

// DeclareIvar renders an ivar as a C declaration. An encoding that does not
// parse is shown raw.
func DeclareIvar(name, types string) string {
	t, err := typeenc.Parse(types)
	if err != nil {
		return fmt.Sprintf("%s /* %q */", name, types)
	}
	return t.Declare(name)
}

// DeclareMethod renders a method in Objective-C declaration syntax, e.g.
// "- (void)setTitle:(NSString *)arg0". An encoding that does not parse
// leaves the types out.
func DeclareMethod(sel, types string, classMethod bool) string {
	prefix := "- "
	if classMethod {
		prefix = "+ "
	}

	sig, err := typeenc.ParseMethod(types)
	if err != nil || len(sig.Args) < 2 {
		return prefix + sel
	}
	args := sig.Args[2:]

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString("(" + sig.Return.String() + ")")

	parts := strings.SplitAfter(sel, ":")
	if len(args) == 0 || !strings.Contains(sel, ":") {
		b.WriteString(sel)
		return b.String()
	}
	n := 0
	for _, part := range parts {
		if part == "" {
			continue
		}
		if n > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(part)
		if strings.HasSuffix(part, ":") && n < len(args) {
			fmt.Fprintf(&b, "(%s)arg%d", args[n].Type.String(), n)
		}
		n++
	}
	return b.String()
}
