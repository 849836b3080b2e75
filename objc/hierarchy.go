//go:build !ios && !android && (amd64 || arm64)

package objc

// maxSuperclassDepth caps unlimited superclass walks, matching the cap
// Describe uses in the root package.
const maxSuperclassDepth = 256

// IsSubclassOf reports whether other is reached by walking at most depth
// steps up c's superclass chain. A depth of zero or less walks to the root,
// stopping after maxSuperclassDepth steps. A class is not its own subclass.
func (c *Class) IsSubclassOf(other *Class, depth int) bool {
	if other == nil {
		return false
	}
	limit := depth
	if limit <= 0 || limit > maxSuperclassDepth {
		limit = maxSuperclassDepth
	}
	h := c.h
	for steps := 0; steps < limit; steps++ {
		h = rt.classGetSuperclass(h)
		if h == 0 {
			return false
		}
		if h == other.h {
			return true
		}
	}
	return false
}

// Subclasses returns every registered class that has c as an ancestor
// within depth steps, in class-list order. A depth of 1 yields direct
// subclasses only; zero or less means any distance.
func (c *Class) Subclasses(depth int) ([]*Class, error) {
	all, err := ClassList()
	if err != nil {
		return nil, err
	}
	var out []*Class
	for _, k := range all {
		if k.IsSubclassOf(c, depth) {
			out = append(out, k)
		}
	}
	return out, nil
}
