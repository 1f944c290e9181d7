package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vk/modscango/internal/classparser"
)

// WriteTree renders the inheritance hierarchy as an indented text tree,
// one root per top-level entry. Classes quarantined for cyclic inheritance
// are listed at the end.
func WriteTree(w io.Writer, h *classparser.Hierarchy) error {
	reg := h.Registry()

	for _, root := range h.Roots() {
		group, name, ok := splitKey(root)
		if !ok {
			continue
		}
		if err := writeSubtree(w, h, group, name, 0); err != nil {
			return err
		}
	}

	invalid := h.Invalid()
	if len(invalid) > 0 {
		if _, err := fmt.Fprintf(w, "\nquarantined (%d):\n", len(invalid)); err != nil {
			return err
		}
		for _, key := range invalid {
			if _, err := fmt.Fprintf(w, "  %s\n", key); err != nil {
				return err
			}
		}
	}

	if reg.Len() == 0 && len(invalid) == 0 {
		_, err := fmt.Fprintln(w, "no classes found")
		return err
	}
	return nil
}

func writeSubtree(w io.Writer, h *classparser.Hierarchy, group, name string, depth int) error {
	label := name
	if depth == 0 {
		label = group + "/" + name
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label); err != nil {
		return err
	}
	for _, childKey := range h.Children(group, name, false) {
		childGroup, childName, ok := splitKey(childKey)
		if !ok {
			continue
		}
		if err := writeSubtree(w, h, childGroup, childName, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func splitKey(key string) (group, name string, ok bool) {
	group, name, ok = strings.Cut(key, "/")
	return group, name, ok
}

// classRecord is the JSON export form of one class.
type classRecord struct {
	Group      string                 `json:"group"`
	Name       string                 `json:"name"`
	Parent     string                 `json:"parent,omitempty"`
	Enum       bool                   `json:"enum,omitempty"`
	Properties map[string]valueRecord `json:"properties,omitempty"`
	Inherited  map[string]valueRecord `json:"inherited,omitempty"`
	SourceFile string                 `json:"source_file,omitempty"`
	LineNumber int                    `json:"line_number,omitempty"`
	SourcePBO  string                 `json:"source_pbo,omitempty"`
	SourceMod  string                 `json:"source_mod,omitempty"`
}

type valueRecord struct {
	Kind  string        `json:"kind"`
	Raw   string        `json:"raw,omitempty"`
	Str   string        `json:"string,omitempty"`
	Num   float64       `json:"number,omitempty"`
	Bool  bool          `json:"boolean,omitempty"`
	Items []valueRecord `json:"items,omitempty"`
}

func toValueRecord(v classparser.Value) valueRecord {
	rec := valueRecord{
		Kind: v.Kind.String(),
		Raw:  v.Raw,
		Str:  v.Str,
		Num:  v.Num,
		Bool: v.Bool,
	}
	for _, item := range v.Items {
		rec.Items = append(rec.Items, toValueRecord(item))
	}
	return rec
}

func toValueRecords(values map[string]classparser.Value) map[string]valueRecord {
	if len(values) == 0 {
		return nil
	}
	records := make(map[string]valueRecord, len(values))
	for name, v := range values {
		records[name] = toValueRecord(v)
	}
	return records
}

// WriteJSON exports every class in the registry, sorted by key, as an
// indented JSON array.
func WriteJSON(w io.Writer, reg *classparser.Registry) error {
	records := make([]classRecord, 0, reg.Len())
	for _, key := range reg.Keys() {
		c, ok := reg.ByKey(key)
		if !ok {
			continue
		}
		records = append(records, classRecord{
			Group:      c.Group,
			Name:       c.Name,
			Parent:     c.Parent,
			Enum:       c.Enum,
			Properties: toValueRecords(c.Properties),
			Inherited:  toValueRecords(c.Inherited),
			SourceFile: c.SourceFile,
			LineNumber: c.LineNumber,
			SourcePBO:  c.SourcePBO,
			SourceMod:  c.SourceMod,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteSummary prints per-group class counts and the quarantine size.
func WriteSummary(w io.Writer, h *classparser.Hierarchy) error {
	reg := h.Registry()
	groups := reg.Groups()

	names := make([]string, 0, len(groups))
	for group := range groups {
		names = append(names, group)
	}
	sort.Strings(names)

	if _, err := fmt.Fprintf(w, "classes: %d\n", reg.Len()); err != nil {
		return err
	}
	for _, group := range names {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", group, len(groups[group])); err != nil {
			return err
		}
	}
	if invalid := h.Invalid(); len(invalid) > 0 {
		if _, err := fmt.Fprintf(w, "quarantined: %d\n", len(invalid)); err != nil {
			return err
		}
	}
	return nil
}
