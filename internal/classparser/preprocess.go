package classparser

import "strings"

// Preprocess normalizes raw config text for scanning: line endings become \n,
// line and block comments are removed, and runs of whitespace outside string
// literals collapse to a single space. Newlines are kept (including inside
// removed block comments) so that line numbers reported by the block scanner
// stay aligned with the input. Content inside string literals is preserved
// verbatim, and a backslash outside comments escapes the following character
// so it is never treated as a delimiter.
//
// Preprocess never fails; pathological input (e.g. an unterminated block
// comment) yields an imperfect but safe normalization.
func Preprocess(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var b strings.Builder
	b.Grow(len(content))

	var (
		inString  bool
		inLine    bool
		inBlock   bool
		escape    bool
		lastSpace bool
	)
	write := func(c byte) {
		b.WriteByte(c)
		lastSpace = c == ' ' || c == '\t' || c == '\n'
	}

	for i := 0; i < len(content); i++ {
		c := content[i]

		if escape {
			write(c)
			escape = false
			continue
		}
		if c == '\\' && !inLine && !inBlock {
			escape = true
			write(c)
			continue
		}
		if !inString && !inLine {
			if !inBlock && c == '/' && i+1 < len(content) && content[i+1] == '*' {
				inBlock = true
				i++
				continue
			}
			if inBlock && c == '*' && i+1 < len(content) && content[i+1] == '/' {
				inBlock = false
				i++
				continue
			}
			if !inBlock && c == '/' && i+1 < len(content) && content[i+1] == '/' {
				inLine = true
				i++
				continue
			}
		}
		if c == '\n' {
			inLine = false
			write('\n')
			continue
		}
		if inLine || inBlock {
			continue
		}
		if c == '"' {
			inString = !inString
			write(c)
			continue
		}
		if !inString && (c == ' ' || c == '\t' || c == '\v' || c == '\f') {
			if b.Len() > 0 && !lastSpace {
				write(' ')
			}
			continue
		}
		write(c)
	}

	return strings.TrimSpace(b.String())
}
