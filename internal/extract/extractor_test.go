package extract_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"potgen/internal/catalog"
	"potgen/internal/extract"
	"potgen/internal/token"
)

func tk(kind token.Kind, text string, line int) token.Token {
	return token.Token{Kind: kind, Text: text, Loc: token.Location{File: "test.py", Line: line}}
}

func str(value string, line int) token.Token {
	return token.Token{
		Kind:  token.String,
		Text:  `"` + value + `"`,
		Value: value,
		Loc:   token.Location{File: "test.py", Line: line},
	}
}

func defaultOpts() extract.Options {
	return extract.Options{Keywords: map[string]struct{}{"_": {}}}
}

func scan(opts extract.Options, file string, toks []token.Token) *catalog.Catalog {
	cat := catalog.New(nil)
	ex := extract.New(opts, cat)
	ex.BeginFile(file)
	for _, tok := range toks {
		ex.Feed(tok)
	}
	return cat
}

func render(t *testing.T, cat *catalog.Catalog) string {
	t.Helper()
	var b strings.Builder
	err := cat.Write(&b, catalog.WriterOptions{
		WriteLocations: true,
		Style:          catalog.StyleGNU,
		Width:          78,
		Escaper:        catalog.NewEscaper(false),
		Now:            func() time.Time { return time.Time{} },
	})
	require.NoError(t, err)
	return b.String()
}

func TestMarkedCall(t *testing.T) {
	cat := scan(defaultOpts(), "test.py", []token.Token{
		tk(token.Name, "_", 5),
		tk(token.Operator, "(", 5),
		str("Hello", 5),
		tk(token.Operator, ")", 5),
	})

	require.Equal(t, 1, cat.Len())
	assert.Contains(t, render(t, cat), "#: test.py:5\nmsgid \"Hello\"")
}

func TestAdjacentLiteralsConcatenate(t *testing.T) {
	cat := scan(defaultOpts(), "test.py", []token.Token{
		tk(token.Name, "_", 1),
		tk(token.Operator, "(", 1),
		str("a", 1),
		str("b", 1),
		tk(token.Operator, ")", 1),
	})

	assert.Contains(t, render(t, cat), `msgid "ab"`)
}

func TestCallLineIsOpeningParen(t *testing.T) {
	// The occurrence is recorded at the line of the '(' even when the
	// literal sits on a later line.
	cat := scan(defaultOpts(), "test.py", []token.Token{
		tk(token.Name, "_", 5),
		tk(token.Operator, "(", 5),
		tk(token.BlankLine, "", 5),
		str("Hello", 6),
		tk(token.Operator, ")", 7),
	})

	assert.Contains(t, render(t, cat), "#: test.py:5\n")
}

func TestEmptyCallIgnored(t *testing.T) {
	cat := scan(defaultOpts(), "test.py", []token.Token{
		tk(token.Name, "_", 1),
		tk(token.Operator, "(", 1),
		tk(token.Operator, ")", 1),
	})

	assert.Equal(t, 0, cat.Len())
}

func TestMalformedCallAbandoned(t *testing.T) {
	cat := scan(defaultOpts(), "test.py", []token.Token{
		tk(token.Name, "_", 1),
		tk(token.Operator, "(", 1),
		str("partial", 1),
		tk(token.Name, "x", 1),
		tk(token.Operator, ")", 1),
		// A later well-formed call still extracts.
		tk(token.Name, "_", 3),
		tk(token.Operator, "(", 3),
		str("ok", 3),
		tk(token.Operator, ")", 3),
	})

	require.Equal(t, 1, cat.Len())
	out := render(t, cat)
	assert.NotContains(t, out, "partial")
	assert.Contains(t, out, `msgid "ok"`)
}

func TestLayoutTokensToleratedInCall(t *testing.T) {
	cat := scan(defaultOpts(), "test.py", []token.Token{
		tk(token.Name, "_", 1),
		tk(token.Operator, "(", 1),
		tk(token.Comment, "# note", 1),
		tk(token.BlankLine, "", 1),
		str("Hello", 2),
		tk(token.BlankLine, "", 2),
		tk(token.Operator, ")", 3),
	})

	assert.Equal(t, 1, cat.Len())
}

func TestKeywordWithoutParen(t *testing.T) {
	cat := scan(defaultOpts(), "test.py", []token.Token{
		tk(token.Name, "_", 1),
		tk(token.Operator, "=", 1),
		str("not extracted", 1),
	})

	assert.Equal(t, 0, cat.Len())
}

func TestUnknownNameIgnored(t *testing.T) {
	cat := scan(defaultOpts(), "test.py", []token.Token{
		tk(token.Name, "gettext", 1),
		tk(token.Operator, "(", 1),
		str("Hello", 1),
		tk(token.Operator, ")", 1),
	})

	assert.Equal(t, 0, cat.Len())
}

func TestConfiguredKeywords(t *testing.T) {
	opts := extract.Options{Keywords: map[string]struct{}{"tr": {}}}
	cat := scan(opts, "test.py", []token.Token{
		tk(token.Name, "tr", 1),
		tk(token.Operator, "(", 1),
		str("Hello", 1),
		tk(token.Operator, ")", 1),
	})

	assert.Equal(t, 1, cat.Len())
}

func TestModuleDocstring(t *testing.T) {
	opts := defaultOpts()
	opts.Docstrings = true
	cat := scan(opts, "test.py", []token.Token{
		// Comments and blank lines do not clear the fresh-file state.
		tk(token.Comment, "# header", 1),
		tk(token.BlankLine, "", 1),
		str("A module.", 3),
	})

	require.Equal(t, 1, cat.Len())
	out := render(t, cat)
	assert.Contains(t, out, "#, docstring\n")
	assert.Contains(t, out, "#: test.py:3\n")
}

func TestModuleDocstringOnlyWhenFresh(t *testing.T) {
	opts := defaultOpts()
	opts.Docstrings = true
	cat := scan(opts, "test.py", []token.Token{
		tk(token.Name, "import", 1),
		tk(token.Name, "os", 1),
		tk(token.Newline, "", 1),
		str("not a docstring", 2),
	})

	assert.Equal(t, 0, cat.Len())
}

func TestFreshFileStateResetsPerFile(t *testing.T) {
	opts := defaultOpts()
	opts.Docstrings = true
	cat := catalog.New(nil)
	ex := extract.New(opts, cat)

	ex.BeginFile("a.py")
	ex.Feed(tk(token.Name, "import", 1))
	ex.BeginFile("b.py")
	ex.Feed(str("B module.", 1))

	require.Equal(t, 1, cat.Len())
	assert.Contains(t, render(t, cat), `msgid "B module."`)
}

func TestClassDocstring(t *testing.T) {
	opts := defaultOpts()
	opts.Docstrings = true
	cat := scan(opts, "test.py", []token.Token{
		tk(token.Name, "import", 1), // clears fresh state
		tk(token.Newline, "", 1),
		tk(token.Name, "class", 3),
		tk(token.Name, "Foo", 3),
		tk(token.Operator, "(", 3),
		tk(token.Name, "Base", 3),
		tk(token.Operator, ")", 3),
		tk(token.Operator, ":", 3),
		tk(token.Newline, "", 3),
		tk(token.Indent, "    ", 4),
		str("A class.", 4),
	})

	require.Equal(t, 1, cat.Len())
	out := render(t, cat)
	assert.Contains(t, out, "#, docstring\n")
	assert.Contains(t, out, `msgid "A class."`)
}

func TestFunctionWithoutDocstring(t *testing.T) {
	opts := defaultOpts()
	opts.Docstrings = true
	cat := scan(opts, "test.py", []token.Token{
		tk(token.Name, "import", 1),
		tk(token.Newline, "", 1),
		tk(token.Name, "def", 3),
		tk(token.Name, "f", 3),
		tk(token.Operator, "(", 3),
		tk(token.Operator, ")", 3),
		tk(token.Operator, ":", 3),
		tk(token.Newline, "", 3),
		tk(token.Indent, "    ", 4),
		tk(token.Name, "return", 4),
		str("not a docstring", 4),
	})

	assert.Equal(t, 0, cat.Len())
}

func TestDocstringsDisabled(t *testing.T) {
	cat := scan(defaultOpts(), "test.py", []token.Token{
		str("A module.", 1),
	})

	assert.Equal(t, 0, cat.Len())
}

func TestNoDocstringFileSuppressed(t *testing.T) {
	opts := defaultOpts()
	opts.Docstrings = true
	opts.NoDocstringFiles = map[string]struct{}{"skip.py": {}}
	cat := scan(opts, "skip.py", []token.Token{
		str("A module.", 1),
		tk(token.Newline, "", 1),
		// Marked calls still extract in suppressed files.
		tk(token.Name, "_", 2),
		tk(token.Operator, "(", 2),
		str("Hello", 2),
		tk(token.Operator, ")", 2),
	})

	require.Equal(t, 1, cat.Len())
	assert.Contains(t, render(t, cat), `msgid "Hello"`)
}

func TestFreshClearingTokenConsumed(t *testing.T) {
	// With docstring extraction on, the token that settles the module
	// docstring question is not also matched as a marking keyword.
	opts := defaultOpts()
	opts.Docstrings = true
	cat := scan(opts, "test.py", []token.Token{
		tk(token.Name, "_", 1),
		tk(token.Operator, "(", 1),
		str("Hello", 1),
		tk(token.Operator, ")", 1),
	})

	assert.Equal(t, 0, cat.Len())
}
