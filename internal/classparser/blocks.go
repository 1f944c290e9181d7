package classparser

import "strings"

// ScanBlocks extracts the forest of class and enum blocks from preprocessed
// text. Each returned block carries its header (keyword included), the literal
// brace-inclusive body (empty for a forward declaration), the 1-based line it
// starts on, and the nested blocks found inside its body.
//
// Malformed spans (a header whose body never closes) produce no block; the
// scanner resumes after them. The scan cursor always advances by at least one
// character per iteration, so the scanner cannot loop forever.
func ScanBlocks(content string) []RawBlock {
	return scanBlocks(content, 1)
}

func scanBlocks(content string, baseLine int) []RawBlock {
	var blocks []RawBlock
	line := baseLine
	i := 0
	for i < len(content) {
		for i < len(content) && isSpace(content[i]) {
			if content[i] == '\n' {
				line++
			}
			i++
		}
		if i >= len(content) {
			break
		}
		if kw, ok := blockKeywordAt(content, i); ok {
			if block, consumed := captureBlock(content[i:], line, kw); block != nil {
				blocks = append(blocks, *block)
				line += strings.Count(content[i:i+consumed], "\n")
				i += consumed
				continue
			}
		}
		i++
	}
	return blocks
}

// blockKeywordAt reports whether a class/enum keyword starts at offset i,
// checking word boundaries on both sides.
func blockKeywordAt(content string, i int) (string, bool) {
	if i > 0 && isWordByte(content[i-1]) {
		return "", false
	}
	for _, kw := range [...]string{"class", "enum"} {
		end := i + len(kw)
		if end >= len(content) {
			continue
		}
		if content[i:end] == kw && !isWordByte(content[end]) {
			return kw, true
		}
	}
	return "", false
}

// captureBlock extracts a single block starting at the keyword. It returns
// the block and the number of characters consumed, or nil when the span is
// not a well-formed block.
func captureBlock(text string, line int, keyword string) (*RawBlock, int) {
	headerEnd := 0
	inString := false
	escape := false
	for headerEnd < len(text) {
		c := text[headerEnd]
		if escape {
			escape = false
		} else if c == '\\' {
			escape = true
		} else if c == '"' {
			inString = !inString
		} else if !inString && (c == '{' || c == ';') {
			break
		}
		headerEnd++
	}
	if headerEnd >= len(text) {
		return nil, 0
	}

	header := strings.TrimSpace(text[:headerEnd])
	if !strings.HasPrefix(header, keyword+" ") {
		return nil, 0
	}

	if text[headerEnd] == ';' {
		return &RawBlock{Keyword: keyword, Header: header, Line: line}, headerEnd + 1
	}

	body, ok := captureBody(text[headerEnd:])
	if !ok {
		return nil, 0
	}

	childBase := line + strings.Count(text[:headerEnd+1], "\n")
	children := scanBlocks(body[1:len(body)-1], childBase)

	return &RawBlock{
		Keyword:  keyword,
		Header:   header,
		Body:     body,
		Line:     line,
		Children: children,
	}, headerEnd + len(body)
}

// captureBody consumes a brace-delimited body, counting depth only outside
// string literals. It reports failure when the braces never balance.
func captureBody(text string) (string, bool) {
	if len(text) == 0 || text[0] != '{' {
		return "", false
	}
	depth := 0
	inString := false
	escape := false
	for i := 0; i < len(text); i++ {
		c := text[i]
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
			if depth == 0 {
				return text[:i+1], true
			}
		}
	}
	return "", false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
