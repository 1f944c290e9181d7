package classparser

// RawBlock is a class or enum block as extracted by ScanBlocks, before any
// property or hierarchy processing. Body is the literal brace-inclusive text
// between the outer braces, or empty for a forward declaration.
type RawBlock struct {
	Keyword  string // "class" or "enum"
	Header   string // full header text including the keyword
	Body     string
	Line     int
	Children []RawBlock
}

// RawClass is the pre-registry intermediate produced from a RawBlock. It
// exists only between block scanning and hierarchy resolution.
type RawClass struct {
	Name       string
	Parent     string
	Group      string
	Enum       bool
	Properties map[string]Value
	SourceFile string
	LineNumber int
	SourcePBO  string
	SourceMod  string
}

// Class is one resolved class or enum definition. Properties holds only the
// class's own declared properties; Inherited holds the merged property set
// collected from its ancestors during hierarchy resolution. Consumers that
// need the effective property set should use Hierarchy.AllProperties rather
// than reading Properties alone.
type Class struct {
	Name       string
	Group      string
	Parent     string // raw parent name, not a resolved reference
	Enum       bool
	Properties map[string]Value
	Inherited  map[string]Value

	SourceFile string
	LineNumber int
	SourcePBO  string
	SourceMod  string
}

// HasProperty reports whether the class declares or inherits the named
// property.
func (c *Class) HasProperty(name string) bool {
	if _, ok := c.Properties[name]; ok {
		return true
	}
	_, ok := c.Inherited[name]
	return ok
}

// AllProperties returns the effective property set: inherited properties with
// the class's own declarations layered on top.
func (c *Class) AllProperties() map[string]Value {
	all := make(map[string]Value, len(c.Inherited)+len(c.Properties))
	for k, v := range c.Inherited {
		all[k] = v
	}
	for k, v := range c.Properties {
		all[k] = v
	}
	return all
}
