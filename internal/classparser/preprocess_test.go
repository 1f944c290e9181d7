package classparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessRemovesLineComments(t *testing.T) {
	out := Preprocess("class Foo {}; // trailing")
	assert.Equal(t, "class Foo {};", out)
	assert.NotContains(t, out, "trailing")
}

func TestPreprocessRemovesBlockComments(t *testing.T) {
	out := Preprocess("a /* gone */ b")
	assert.Equal(t, "a b", out)

	out = Preprocess("a /* spans\nlines */ b")
	assert.NotContains(t, out, "spans")
	assert.NotContains(t, out, "lines")
	// Newlines inside removed comments survive so line numbers stay aligned.
	assert.Contains(t, out, "\n")
}

func TestPreprocessPreservesStrings(t *testing.T) {
	t.Run("comment markers inside strings", func(t *testing.T) {
		out := Preprocess(`name = "a // not a comment";`)
		assert.Equal(t, `name = "a // not a comment";`, out)

		out = Preprocess(`name = "a /* still here */";`)
		assert.Contains(t, out, "still here")
	})

	t.Run("whitespace inside strings", func(t *testing.T) {
		out := Preprocess(`t = "a   b";`)
		assert.Contains(t, out, `"a   b"`)
	})
}

func TestPreprocessEscapedQuote(t *testing.T) {
	in := `s = "x\"y";`
	assert.Equal(t, in, Preprocess(in))
}

func TestPreprocessCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b", Preprocess("a \t  b"))
	assert.Equal(t, "", Preprocess("   \t  "))
}

func TestPreprocessNormalizesLineEndings(t *testing.T) {
	out := Preprocess("a\r\nb\rc")
	assert.Equal(t, "a\nb\nc", out)
	assert.NotContains(t, out, "\r")
}

func TestPreprocessDanglingBlockComment(t *testing.T) {
	// Worst case is an imperfect normalization, never a failure.
	assert.Equal(t, "a", Preprocess("a /* never closed"))
}

func TestPreprocessLargeInputNoPanic(t *testing.T) {
	in := strings.Repeat(`class X { a = "v"; }; // c`+"\n", 2000)
	out := Preprocess(in)
	assert.NotEmpty(t, out)
	assert.NotContains(t, out, "// c")
}
