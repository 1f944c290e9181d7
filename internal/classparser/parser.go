package classparser

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"unicode/utf8"
)

// headerPattern matches a validated block header: the keyword, the class
// name, and an optional ": Parent" clause.
var headerPattern = regexp.MustCompile(`^(class|enum)\s+(\w+)(?:\s*:\s*(\w+))?$`)

// ParsingError is the single error kind the parser surfaces: unreadable
// input or an internal invariant violation during block-to-class conversion.
// Malformed class bodies and unknown property syntax are skipped with a
// diagnostic instead.
type ParsingError struct {
	File string
	Err  error
}

func (e *ParsingError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parsing %s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("parsing: %v", e.Err)
}

func (e *ParsingError) Unwrap() error {
	return e.Err
}

// FileSource describes the provenance stamped onto parsed classes.
type FileSource struct {
	PBOPath string
	ModName string
}

// Parser wires the preprocessing, scanning, property parsing and hierarchy
// stages into a single entry point. A Parser instance must be used by one
// logical parse at a time; concurrent callers construct their own instances,
// which share no mutable state.
type Parser struct {
	logger    *slog.Logger
	registry  *Registry
	hierarchy *Hierarchy
}

// New returns a parser logging through the given logger. A nil logger falls
// back to slog.Default.
func New(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	reg, h := BuildHierarchy(nil)
	return &Parser{logger: logger, registry: reg, hierarchy: h}
}

// Registry returns the registry produced by the most recent parse.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Hierarchy returns the hierarchy produced by the most recent parse.
func (p *Parser) Hierarchy() *Hierarchy {
	return p.hierarchy
}

// Parse runs the full pipeline over config text: preprocess, scan blocks,
// convert to raw classes and resolve the hierarchy. Empty content or content
// with no class blocks is valid and yields an empty registry. sourceFile is
// recorded on every produced class.
func (p *Parser) Parse(content, sourceFile string) (*Registry, error) {
	raws, err := p.ScanRaw(content, sourceFile)
	if err != nil {
		return nil, err
	}
	p.registry, p.hierarchy = BuildHierarchy(raws)

	return p.registry, nil
}

// ScanRaw runs preprocessing, block scanning and class conversion, returning
// the flat raw classes without resolving inheritance. Callers merging input
// from many files collect raw classes and hand the full set to
// BuildHierarchy once.
func (p *Parser) ScanRaw(content, sourceFile string) ([]RawClass, error) {
	clean := Preprocess(content)
	if clean == "" {
		p.logger.Warn("Empty content after preprocessing.", "file", sourceFile)
		return nil, nil
	}

	blocks := ScanBlocks(clean)
	if len(blocks) == 0 {
		p.logger.Warn("No class blocks found.", "file", sourceFile)
		return nil, nil
	}

	var raws []RawClass
	for _, block := range blocks {
		name, parent, ok := p.parseHeader(block)
		if !ok {
			continue
		}
		if IsGroup(name) && parent == "" {
			// A recognized top-level group scopes the classes declared
			// inside it.
			for _, child := range block.Children {
				converted, err := p.convertBlock(child, name, "", sourceFile)
				if err != nil {
					return nil, err
				}
				raws = append(raws, converted...)
			}
			continue
		}
		converted, err := p.convertBlock(block, DefaultGroup, "", sourceFile)
		if err != nil {
			return nil, err
		}
		raws = append(raws, converted...)
	}
	return raws, nil
}

// ParseFile reads and parses a config file. The file is decoded as UTF-8
// first, falling back to Latin-1 (a total byte-to-rune mapping, so the
// fallback cannot fail); only a read failure surfaces as a ParsingError.
// Provenance from src is stamped onto every class after resolution.
func (p *Parser) ParseFile(path string, src FileSource) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParsingError{File: path, Err: err}
	}

	content := string(data)
	if !utf8.Valid(data) {
		p.logger.Debug("Content is not valid UTF-8, decoding as Latin-1.", "file", path)
		content = decodeLatin1(data)
	}

	reg, err := p.Parse(content, path)
	if err != nil {
		return nil, err
	}
	for _, c := range reg.All() {
		if src.PBOPath != "" {
			c.SourcePBO = src.PBOPath
		}
		if src.ModName != "" {
			c.SourceMod = src.ModName
		}
	}
	return reg, nil
}

// ScanRawFile reads a config file with the same encoding fallback as
// ParseFile, but stops before hierarchy resolution, returning stamped raw
// classes for callers merging many files into one build.
func (p *Parser) ScanRawFile(path string, src FileSource) ([]RawClass, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParsingError{File: path, Err: err}
	}
	return p.scanRawBytes(data, path, src)
}

// ScanRawContent is ScanRawFile for content already in memory, such as a
// file extracted from an archive.
func (p *Parser) ScanRawContent(data []byte, sourceFile string, src FileSource) ([]RawClass, error) {
	return p.scanRawBytes(data, sourceFile, src)
}

func (p *Parser) scanRawBytes(data []byte, sourceFile string, src FileSource) ([]RawClass, error) {
	content := string(data)
	if !utf8.Valid(data) {
		p.logger.Debug("Content is not valid UTF-8, decoding as Latin-1.", "file", sourceFile)
		content = decodeLatin1(data)
	}

	raws, err := p.ScanRaw(content, sourceFile)
	if err != nil {
		return nil, err
	}
	for i := range raws {
		raws[i].SourcePBO = src.PBOPath
		raws[i].SourceMod = src.ModName
	}
	return raws, nil
}

// parseHeader validates a block header against the class/enum grammar.
// Headers that do not match are diagnosed and skipped.
func (p *Parser) parseHeader(block RawBlock) (name, parent string, ok bool) {
	m := headerPattern.FindStringSubmatch(block.Header)
	if m == nil {
		p.logger.Warn("Skipping block with malformed header.", "header", block.Header, "line", block.Line)
		return "", "", false
	}
	return m[2], m[3], true
}

// convertBlock turns a block and its nested children into raw classes. A
// nested class without an explicit base inherits its enclosing class, which
// also makes it addressable through the registry's nested-path lookup.
func (p *Parser) convertBlock(block RawBlock, group, enclosing, sourceFile string) ([]RawClass, error) {
	name, parent, ok := p.parseHeader(block)
	if !ok {
		return nil, nil
	}
	if name == "" {
		// The header grammar cannot produce an empty name; treat it as a
		// broken conversion rather than bad input.
		return nil, &ParsingError{File: sourceFile, Err: fmt.Errorf("block at line %d converted to unnamed class", block.Line)}
	}
	if parent == "" && enclosing != "" {
		parent = enclosing
	}

	raws := []RawClass{{
		Name:       name,
		Parent:     parent,
		Group:      group,
		Enum:       block.Keyword == "enum",
		Properties: p.ParseProperties(block.Body),
		SourceFile: sourceFile,
		LineNumber: block.Line,
	}}

	for _, child := range block.Children {
		converted, err := p.convertBlock(child, group, name, sourceFile)
		if err != nil {
			return nil, err
		}
		raws = append(raws, converted...)
	}
	return raws, nil
}

// decodeLatin1 widens each byte to the Unicode code point with the same
// value, which is exactly the Latin-1 decoding.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
