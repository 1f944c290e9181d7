package classparser

import "sort"

// Hierarchy holds the derived inheritance indices produced alongside a
// resolved registry: parent/child edges, root classes and the invalid set of
// classes quarantined for cyclic inheritance.
//
// Inheritance links classes by name within a group, so all hierarchy queries
// and results use plain "group/name" keys. The registry may store a nested
// class under a longer "group/parent/name" key; keyFor translates between
// the two.
type Hierarchy struct {
	reg      *Registry
	keyFor   map[string]string // group/name -> registry key
	parents  map[string]string
	children map[string][]string
	roots    []string
	invalid  map[string]struct{}
}

// BuildHierarchy converts a flat set of raw classes into a registry with
// inheritance resolved. Cyclic inheritance never fails the build: every
// participant of a cycle lands in the invalid set and is excluded from the
// registry. A parent name that resolves to no known class is permitted
// (base-game classes live outside the scanned text); such classes simply
// inherit nothing.
func BuildHierarchy(raws []RawClass) (*Registry, *Hierarchy) {
	// Composite keys dedupe definitions: the last definition of a key wins,
	// matching the language's override semantics. Inheritance links classes
	// by bare name within a group, so a separate name index resolves parent
	// references; when the same name exists under several parents, the last
	// registered definition is the one the name resolves to.
	byComp := make(map[string]*RawClass, len(raws))
	compOrder := make([]string, 0, len(raws))
	byName := make(map[string]*RawClass, len(raws))
	nameOrder := make([]string, 0, len(raws))
	for i := range raws {
		raw := &raws[i]
		comp := classKey(raw.Group, raw.Parent, raw.Name)
		if _, seen := byComp[comp]; !seen {
			compOrder = append(compOrder, comp)
		}
		byComp[comp] = raw

		nameKey := classKey(raw.Group, "", raw.Name)
		if _, seen := byName[nameKey]; !seen {
			nameOrder = append(nameOrder, nameKey)
		}
		byName[nameKey] = raw
	}

	invalid := detectCycles(byName, nameOrder)

	reg := NewRegistry()
	h := &Hierarchy{
		reg:      reg,
		keyFor:   make(map[string]string),
		parents:  make(map[string]string),
		children: make(map[string][]string),
		invalid:  invalid,
	}

	for _, comp := range compOrder {
		raw := byComp[comp]
		nameKey := classKey(raw.Group, "", raw.Name)
		if _, bad := invalid[nameKey]; bad {
			continue
		}

		c := &Class{
			Name:       raw.Name,
			Group:      raw.Group,
			Parent:     raw.Parent,
			Enum:       raw.Enum,
			Properties: raw.Properties,
			Inherited:  inheritedProperties(raw, byName, invalid),
			SourceFile: raw.SourceFile,
			LineNumber: raw.LineNumber,
			SourcePBO:  raw.SourcePBO,
			SourceMod:  raw.SourceMod,
		}
		if c.Properties == nil {
			c.Properties = make(map[string]Value)
		}
		reg.Add(c)
		h.keyFor[nameKey] = comp

		// Edges are recorded once per name, for the definition the name
		// resolves to.
		if byName[nameKey] != raw {
			continue
		}
		if raw.Parent == "" {
			h.roots = append(h.roots, nameKey)
			continue
		}
		parentKey := classKey(raw.Group, "", raw.Parent)
		if _, bad := invalid[parentKey]; bad {
			continue
		}
		if _, known := byName[parentKey]; !known {
			continue
		}
		h.parents[nameKey] = parentKey
		h.children[parentKey] = append(h.children[parentKey], nameKey)
	}

	for _, kids := range h.children {
		sort.Strings(kids)
	}
	sort.Strings(h.roots)
	return reg, h
}

// detectCycles walks the parent-pointer graph depth-first from every
// unvisited class. When a class is revisited while still on the current
// path, the whole path plus the revisited class is quarantined. Each class
// is marked visited exactly once overall, bounding the traversal.
func detectCycles(byName map[string]*RawClass, order []string) map[string]struct{} {
	invalid := make(map[string]struct{})
	visited := make(map[string]struct{}, len(byName))

	for _, start := range order {
		if _, done := visited[start]; done {
			continue
		}
		onPath := make(map[string]struct{})
		var path []string

		key := start
		for {
			raw, known := byName[key]
			if !known {
				break
			}
			if _, cycling := onPath[key]; cycling {
				for _, k := range path {
					invalid[k] = struct{}{}
				}
				invalid[key] = struct{}{}
				break
			}
			if _, done := visited[key]; done {
				break
			}
			visited[key] = struct{}{}
			onPath[key] = struct{}{}
			path = append(path, key)
			if raw.Parent == "" {
				break
			}
			key = classKey(raw.Group, "", raw.Parent)
		}
	}
	return invalid
}

// inheritedProperties merges the parent chain's properties from furthest
// ancestor to nearest, so a closer ancestor's value overrides a farther one.
// The walk skips nothing it can resolve and stops at a missing parent or the
// first invalid ancestor.
func inheritedProperties(raw *RawClass, byName map[string]*RawClass, invalid map[string]struct{}) map[string]Value {
	var chain []*RawClass
	seen := map[string]struct{}{classKey(raw.Group, "", raw.Name): {}}

	cur := raw
	for cur.Parent != "" {
		parentKey := classKey(cur.Group, "", cur.Parent)
		parent, known := byName[parentKey]
		if !known {
			break
		}
		if _, bad := invalid[parentKey]; bad {
			break
		}
		if _, looped := seen[parentKey]; looped {
			break
		}
		seen[parentKey] = struct{}{}
		chain = append(chain, parent)
		cur = parent
	}

	inherited := make(map[string]Value)
	for i := len(chain) - 1; i >= 0; i-- {
		for name, value := range chain[i].Properties {
			inherited[name] = value
		}
	}
	return inherited
}

// Registry returns the resolved registry the hierarchy was built with.
func (h *Hierarchy) Registry() *Registry {
	return h.reg
}

// Invalid returns the sorted group/name keys quarantined for cyclic
// inheritance.
func (h *Hierarchy) Invalid() []string {
	keys := make([]string, 0, len(h.invalid))
	for key := range h.invalid {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsInvalid reports whether the named class was quarantined.
func (h *Hierarchy) IsInvalid(group, name string) bool {
	_, bad := h.invalid[classKey(group, "", name)]
	return bad
}

// Roots returns the sorted group/name keys of classes with no parent.
func (h *Hierarchy) Roots() []string {
	return append([]string(nil), h.roots...)
}

// Children returns the direct children of a class, or the full descendant
// closure (breadth-first) when includeIndirect is set.
func (h *Hierarchy) Children(group, name string, includeIndirect bool) []string {
	key := classKey(group, "", name)
	if !includeIndirect {
		return append([]string(nil), h.children[key]...)
	}

	var result []string
	seen := make(map[string]struct{})
	queue := append([]string(nil), h.children[key]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, dup := seen[cur]; dup {
			continue
		}
		seen[cur] = struct{}{}
		result = append(result, cur)
		queue = append(queue, h.children[cur]...)
	}
	sort.Strings(result)
	return result
}

// InheritanceChain returns the class and its ancestors as group/name keys,
// walking parent links until a missing or invalid parent is hit. With
// bottomUp the chain runs child to root; otherwise root first.
func (h *Hierarchy) InheritanceChain(group, name string, bottomUp bool) []string {
	key := classKey(group, "", name)
	if _, ok := h.keyFor[key]; !ok {
		return nil
	}

	chain := []string{key}
	seen := map[string]struct{}{key: {}}
	cur := key
	for {
		parent, ok := h.parents[cur]
		if !ok {
			break
		}
		if _, looped := seen[parent]; looped {
			break
		}
		seen[parent] = struct{}{}
		chain = append(chain, parent)
		cur = parent
	}

	if !bottomUp {
		for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
			chain[i], chain[j] = chain[j], chain[i]
		}
	}
	return chain
}

// ClassesWithProperty returns the sorted registry keys of every valid class
// whose merged property set (own plus inherited) contains the property.
func (h *Hierarchy) ClassesWithProperty(property string) []string {
	var keys []string
	for _, key := range h.reg.Keys() {
		c, _ := h.reg.ByKey(key)
		if c.HasProperty(property) {
			keys = append(keys, key)
		}
	}
	return keys
}

// AllProperties returns the effective property set of a class: inherited
// properties with its own declarations layered on top.
func (h *Hierarchy) AllProperties(group, name string) (map[string]Value, bool) {
	c, ok := h.reg.Get(group, name)
	if !ok {
		return nil, false
	}
	return c.AllProperties(), true
}
