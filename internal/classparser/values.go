package classparser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	quotedStringPattern = regexp.MustCompile(`^"([^"]*)"$`)
	numberPattern       = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+$`)
	booleanPattern      = regexp.MustCompile(`^(?i:true|false)$`)
)

// pathExtensions are the binary asset extensions that refine a quoted string
// into a path value. Matching is case-insensitive on the dequoted text.
var pathExtensions = []string{".p3d", ".paa", ".rtm", ".wss", ".ogg", ".jpg", ".png"}

// ParseValue classifies and parses a single property's right-hand side.
// Classification order: array, quoted string (refined to a path when the
// dequoted text ends in a known asset extension), number, boolean, and
// finally the raw text as a bare string. The raw form is preserved verbatim
// on every result.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "{") {
		return parseArrayValue(raw)
	}
	if m := quotedStringPattern.FindStringSubmatch(raw); m != nil {
		if isAssetPath(m[1]) {
			return Value{Raw: raw, Kind: KindPath, Str: m[1]}
		}
		return Value{Raw: raw, Kind: KindString, Str: m[1]}
	}
	if numberPattern.MatchString(raw) {
		n, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return Value{Raw: raw, Kind: KindNumber, Num: n}
		}
	}
	if booleanPattern.MatchString(raw) {
		return Value{Raw: raw, Kind: KindBoolean, Bool: strings.EqualFold(raw, "true")}
	}
	return Value{Raw: raw, Kind: KindString, Str: raw}
}

func isAssetPath(s string) bool {
	lower := strings.ToLower(s)
	for _, ext := range pathExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// parseArrayValue parses a brace-delimited array literal, recursing into
// nested arrays. Input that is not brace-delimited yields an empty array,
// mirroring how array-typed properties degrade on malformed values.
func parseArrayValue(raw string) Value {
	content := strings.TrimSpace(raw)
	if !strings.HasPrefix(content, "{") || !strings.HasSuffix(content, "}") {
		return Value{Raw: raw, Kind: KindArray}
	}
	content = strings.TrimSpace(content[1 : len(content)-1])
	if content == "" {
		return Value{Raw: raw, Kind: KindArray}
	}

	var items []Value
	for _, item := range splitTopLevel(content, ',') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		items = append(items, ParseValue(item))
	}
	return Value{Raw: raw, Kind: KindArray, Items: items}
}

// splitTopLevel splits s on sep at brace depth zero, outside string literals,
// honoring backslash escapes. The separator itself is not included in the
// returned parts; a trailing part is always returned, even when empty input
// follows the final separator.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	start := 0
	depth := 0
	inString := false
	escape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escape {
			escape = false
			continue
		}
		switch {
		case c == '\\':
			escape = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
