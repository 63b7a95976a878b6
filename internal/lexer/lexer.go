// Package lexer tokenizes Python source into the stream consumed by the
// extractor. It is line oriented: logical-line structure (NEWLINE vs
// BLANKLINE, INDENT/DEDENT) follows Python's own tokenization rules closely
// enough for message extraction, without building a syntax tree.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"potgen/internal/token"
)

const tabSize = 8

type scanner struct {
	file string
	// lines are physical lines without their trailing line break.
	lines []string
	emit  func(token.Token)

	lnum int // 0-based index into lines
	col  int // byte offset into the current line

	indents   []int
	depth     int // open bracket depth
	continued bool
}

// Tokenize scans src and delivers each token to emit in source order. A
// lexical failure (unterminated literal, inconsistent dedent) stops the scan
// and is returned; tokens already emitted stand.
func Tokenize(file string, src []byte, emit func(token.Token)) error {
	s := &scanner{
		file:    file,
		lines:   splitLines(src),
		emit:    emit,
		indents: []int{0},
	}
	return s.run()
}

func splitLines(src []byte) []string {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	// A trailing line break yields an empty final element, not a line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func (s *scanner) loc() token.Location {
	return token.Location{File: s.file, Line: s.lnum + 1}
}

func (s *scanner) emitTok(kind token.Kind, text string) {
	s.emit(token.Token{Kind: kind, Text: text, Loc: s.loc()})
}

func (s *scanner) run() error {
	for s.lnum < len(s.lines) {
		if s.depth == 0 && !s.continued {
			skip, err := s.startLogicalLine()
			if err != nil {
				return err
			}
			if skip {
				continue
			}
		} else {
			s.continued = false
			s.col = 0
		}
		if err := s.scanLine(); err != nil {
			return err
		}
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emitTok(token.Dedent, "")
	}
	return nil
}

// startLogicalLine measures indentation and emits INDENT/DEDENT tokens.
// Blank and comment-only lines are consumed whole; it reports true when the
// caller should move on to the next line.
func (s *scanner) startLogicalLine() (bool, error) {
	line := s.lines[s.lnum]
	col, pos := 0, 0
measure:
	for pos < len(line) {
		switch line[pos] {
		case ' ':
			col++
		case '\t':
			col = col/tabSize*tabSize + tabSize
		case '\f':
			col = 0
		default:
			break measure
		}
		pos++
	}
	if pos >= len(line) || line[pos] == '#' {
		if pos < len(line) {
			s.emitTok(token.Comment, line[pos:])
		}
		s.emitTok(token.BlankLine, "")
		s.lnum++
		return true, nil
	}
	if col > s.indents[len(s.indents)-1] {
		s.indents = append(s.indents, col)
		s.emitTok(token.Indent, line[:pos])
	}
	for col < s.indents[len(s.indents)-1] {
		s.indents = s.indents[:len(s.indents)-1]
		s.emitTok(token.Dedent, "")
	}
	if col != s.indents[len(s.indents)-1] {
		return false, fmt.Errorf("%s:%d: unindent does not match any outer indentation level", s.file, s.lnum+1)
	}
	s.col = pos
	return false, nil
}

// scanLine emits the tokens of one physical line, following string literals
// across lines when they continue.
func (s *scanner) scanLine() error {
	for {
		line := s.lines[s.lnum]
		if s.col >= len(line) {
			if s.depth > 0 {
				s.emitTok(token.BlankLine, "")
			} else {
				s.emitTok(token.Newline, "")
			}
			s.lnum++
			return nil
		}
		c := line[s.col]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			s.col++
		case c == '\\' && s.col == len(line)-1:
			s.continued = true
			s.lnum++
			return nil
		case c == '#':
			s.emitTok(token.Comment, line[s.col:])
			s.col = len(line)
		case c == '\'' || c == '"':
			if err := s.scanString(""); err != nil {
				return err
			}
		case isNameStart(line[s.col:]):
			if err := s.scanName(); err != nil {
				return err
			}
		case c >= '0' && c <= '9', c == '.' && s.col+1 < len(line) && isDigit(line[s.col+1]):
			s.scanNumber()
		default:
			s.scanOperator()
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameStart(rest string) bool {
	r, _ := utf8.DecodeRuneInString(rest)
	return r == '_' || unicode.IsLetter(r)
}

func isNameCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// stringPrefixes are the literal prefixes Python accepts before a quote.
var stringPrefixes = map[string]bool{
	"r": true, "b": true, "u": true, "f": true,
	"rb": true, "br": true, "fr": true, "rf": true,
}

func (s *scanner) scanName() error {
	line := s.lines[s.lnum]
	start := s.col
	for s.col < len(line) {
		r, size := utf8.DecodeRuneInString(line[s.col:])
		if !isNameCont(r) {
			break
		}
		s.col += size
	}
	text := line[start:s.col]
	if s.col < len(line) && (line[s.col] == '\'' || line[s.col] == '"') &&
		stringPrefixes[strings.ToLower(text)] {
		return s.scanString(text)
	}
	s.emit(token.Token{Kind: token.Name, Text: text, Loc: s.loc()})
	return nil
}

func (s *scanner) scanNumber() {
	line := s.lines[s.lnum]
	start := s.col
	for s.col < len(line) {
		c := line[s.col]
		switch {
		case isDigit(c), c == '.', c == '_',
			c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			s.col++
		case (c == '+' || c == '-') && s.col > start &&
			(line[s.col-1] == 'e' || line[s.col-1] == 'E'):
			s.col++
		default:
			s.emit(token.Token{Kind: token.Operator, Text: line[start:s.col], Loc: s.loc()})
			return
		}
	}
	s.emit(token.Token{Kind: token.Operator, Text: line[start:s.col], Loc: s.loc()})
}

// multiOps is checked longest-first; everything else is a one-byte operator.
var multiOps = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"**", "//", ">>", "<<", "<=", ">=", "==", "!=",
	"->", ":=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
}

func (s *scanner) scanOperator() {
	line := s.lines[s.lnum]
	rest := line[s.col:]
	text := ""
	for _, op := range multiOps {
		if strings.HasPrefix(rest, op) {
			text = op
			break
		}
	}
	if text == "" {
		_, size := utf8.DecodeRuneInString(rest)
		text = rest[:size]
	}
	switch text {
	case "(", "[", "{":
		s.depth++
	case ")", "]", "}":
		if s.depth > 0 {
			s.depth--
		}
	}
	s.emit(token.Token{Kind: token.Operator, Text: text, Loc: s.loc()})
	s.col += len(text)
}

// scanString consumes a string literal whose prefix (possibly empty) has
// already been scanned. s.col sits on the opening quote.
func (s *scanner) scanString(prefix string) error {
	start := s.col - len(prefix)
	startLine := s.lnum
	line := s.lines[s.lnum]
	q := line[s.col]
	raw := strings.ContainsAny(prefix, "rR")
	loc := token.Location{File: s.file, Line: s.lnum + 1}

	if strings.HasPrefix(line[s.col:], strings.Repeat(string(q), 3)) {
		return s.scanTripleString(start, startLine, q, raw, loc)
	}

	var body strings.Builder
	i := s.col + 1
	for {
		if i >= len(line) {
			return fmt.Errorf("%s:%d: unterminated string literal", s.file, s.lnum+1)
		}
		c := line[i]
		if c == '\\' {
			if i == len(line)-1 {
				// Backslash-newline continues the literal on the next line.
				if s.lnum+1 >= len(s.lines) {
					return fmt.Errorf("%s:%d: EOF in string literal", s.file, loc.Line)
				}
				body.WriteString("\\\n")
				s.lnum++
				line = s.lines[s.lnum]
				i = 0
				continue
			}
			body.WriteByte(c)
			body.WriteByte(line[i+1])
			i += 2
			continue
		}
		if c == q {
			break
		}
		body.WriteByte(c)
		i++
	}
	s.col = i + 1
	s.emit(token.Token{
		Kind:  token.String,
		Text:  prefix + string(q) + body.String() + string(q),
		Value: decodeString(body.String(), raw),
		Loc:   loc,
	})
	return nil
}

func (s *scanner) scanTripleString(start, startLine int, q byte, raw bool, loc token.Location) error {
	delim := strings.Repeat(string(q), 3)
	line := s.lines[s.lnum]
	var body strings.Builder
	i := s.col + 3
	for {
		if i >= len(line) {
			if s.lnum+1 >= len(s.lines) {
				return fmt.Errorf("%s:%d: EOF in multi-line string literal", s.file, loc.Line)
			}
			body.WriteByte('\n')
			s.lnum++
			line = s.lines[s.lnum]
			i = 0
			continue
		}
		if line[i] == '\\' && i < len(line)-1 {
			body.WriteByte(line[i])
			body.WriteByte(line[i+1])
			i += 2
			continue
		}
		if strings.HasPrefix(line[i:], delim) {
			break
		}
		body.WriteByte(line[i])
		i++
	}
	s.col = i + 3
	var rawText string
	if s.lnum == startLine {
		rawText = s.lines[startLine][start:s.col]
	} else {
		parts := []string{s.lines[startLine][start:]}
		parts = append(parts, s.lines[startLine+1:s.lnum]...)
		parts = append(parts, line[:s.col])
		rawText = strings.Join(parts, "\n")
	}
	s.emit(token.Token{
		Kind:  token.String,
		Text:  rawText,
		Value: decodeString(body.String(), raw),
		Loc:   loc,
	})
	return nil
}
