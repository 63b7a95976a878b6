// Package token defines the lexical token stream consumed by the extractor.
package token

import "fmt"

// Kind classifies a lexical token.
type Kind int

const (
	// String is a string literal token, raw quoted text in Text and the
	// decoded value in Value.
	String Kind = iota
	// Name is an identifier or keyword.
	Name
	// Operator covers punctuation, operators, and any other atom the
	// extractor does not distinguish further (numbers included).
	Operator
	// Comment is a '#' comment.
	Comment
	// Newline terminates a logical line.
	Newline
	// Indent opens an indentation level at the start of a logical line.
	Indent
	// Dedent closes one indentation level.
	Dedent
	// BlankLine is a non-logical line end: a blank or comment-only line,
	// or a line break inside brackets.
	BlankLine
)

var kindNames = map[Kind]string{
	String:    "STRING",
	Name:      "NAME",
	Operator:  "OPERATOR",
	Comment:   "COMMENT",
	Newline:   "NEWLINE",
	Indent:    "INDENT",
	Dedent:    "DEDENT",
	BlankLine: "BLANKLINE",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Location identifies where a token (or message occurrence) was found.
type Location struct {
	// File is the source file identifier as given to the scanner.
	File string
	// Line is the 1-based line number.
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Token is one lexical token with its source location.
type Token struct {
	Kind Kind
	// Text is the raw source text of the token.
	Text string
	// Value is the decoded literal value; set only for String tokens.
	Value string
	// Loc is the position of the token's first character.
	Loc Location
}

// IsLayout reports whether the token only shapes line structure.
func (t Token) IsLayout() bool {
	switch t.Kind {
	case Newline, Indent, Dedent, BlankLine:
		return true
	default:
		return false
	}
}
