package classparser

import (
	"sort"
	"strings"
)

// Registry is the flat store of resolved classes, keyed by composite key,
// with a per-group index of declared class names. The registry owns the
// classes it stores; callers get the stored pointers but must treat them as
// read-only.
type Registry struct {
	classes map[string]*Class
	groups  map[string]map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*Class),
		groups:  make(map[string]map[string]struct{}),
	}
}

// classKey is the single place composite keys are built, so insertion and
// lookup can never disagree on the format. Nested classes are keyed under
// their parent; top-level classes directly under their group.
func classKey(group, parent, name string) string {
	if parent != "" {
		return group + "/" + parent + "/" + name
	}
	return group + "/" + name
}

// Add stores a class, overwriting any earlier definition with the same key.
// Last write wins, mirroring the config language's override semantics.
func (r *Registry) Add(c *Class) {
	r.classes[classKey(c.Group, c.Parent, c.Name)] = c
	names, ok := r.groups[c.Group]
	if !ok {
		names = make(map[string]struct{})
		r.groups[c.Group] = names
	}
	names[c.Name] = struct{}{}
}

// Get resolves a class by group and name. Lookup order: the exact group/name
// key; for dotted references like "Parent.Child", the nested
// group/Parent/Child key; finally a fallback scan for any key in the group
// ending in /name. The fallback scans candidate keys in sorted order so an
// ambiguous shorthand always resolves to the same class.
func (r *Registry) Get(group, name string) (*Class, bool) {
	if c, ok := r.classes[classKey(group, "", name)]; ok {
		return c, true
	}

	if dot := strings.LastIndex(name, "."); dot >= 0 {
		parent, child := name[:dot], name[dot+1:]
		if c, found := r.classes[classKey(group, parent, child)]; found {
			return c, true
		}
	}

	prefix := group + "/"
	suffix := "/" + name
	keys := make([]string, 0, len(r.classes))
	for key := range r.classes {
		if strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, false
	}
	sort.Strings(keys)
	return r.classes[keys[0]], true
}

// Len returns the number of stored classes.
func (r *Registry) Len() int {
	return len(r.classes)
}

// Keys returns all composite keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.classes))
	for key := range r.classes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ByKey returns the class stored under an exact composite key.
func (r *Registry) ByKey(key string) (*Class, bool) {
	c, ok := r.classes[key]
	return c, ok
}

// All returns the stored classes in sorted key order.
func (r *Registry) All() []*Class {
	all := make([]*Class, 0, len(r.classes))
	for _, key := range r.Keys() {
		all = append(all, r.classes[key])
	}
	return all
}

// Groups returns each config group with its sorted class names.
func (r *Registry) Groups() map[string][]string {
	out := make(map[string][]string, len(r.groups))
	for group, names := range r.groups {
		sorted := make([]string, 0, len(names))
		for name := range names {
			sorted = append(sorted, name)
		}
		sort.Strings(sorted)
		out[group] = sorted
	}
	return out
}
