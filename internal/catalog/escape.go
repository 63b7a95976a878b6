package catalog

import (
	"fmt"
	"strings"
)

// Escaper converts raw message text into the quote-safe form used inside
// msgid strings. The 256-entry table is computed once from configuration and
// shared read-only for the whole run.
type Escaper struct {
	table [256]string
}

// NewEscaper builds the escape table. Characters in the printable range
// 32..126 pass through; with passExtended the range extends to 127..255.
// Everything else becomes a three-digit octal escape, except the fixed
// sequences for backslash, tab, carriage return, newline, and double quote.
func NewEscaper(passExtended bool) *Escaper {
	e := &Escaper{}
	for i := 0; i < 256; i++ {
		printable := i >= 32 && i <= 126
		if passExtended && i >= 127 {
			printable = true
		}
		if printable {
			e.table[i] = string([]byte{byte(i)})
		} else {
			e.table[i] = fmt.Sprintf("\\%03o", i)
		}
	}
	e.table['\\'] = `\\`
	e.table['\t'] = `\t`
	e.table['\r'] = `\r`
	e.table['\n'] = `\n`
	e.table['"'] = `\"`
	return e
}

// Escape maps every byte of s through the table.
func (e *Escaper) Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b.WriteString(e.table[s[i]])
	}
	return b.String()
}

// Normalize wraps a message in the catalog quoting convention. Single-line
// messages become one quoted string. Multi-line messages become an empty
// leading segment followed by one quoted segment per line joined with the
// line-continuation escape; a trailing empty segment left by a literal ending
// in a newline is dropped and its newline reattached to the prior segment.
func (e *Escaper) Normalize(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) == 1 {
		return `"` + e.Escape(s) + `"`
	}
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
		lines[len(lines)-1] += "\n"
	}
	for i := range lines {
		lines[i] = e.Escape(lines[i])
	}
	return "\"\"\n\"" + strings.Join(lines, "\\n\"\n\"") + `"`
}
