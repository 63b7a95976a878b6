// Package extract classifies a token stream into translatable-message
// occurrences.
package extract

import (
	"strings"

	"github.com/rs/zerolog/log"

	"potgen/internal/catalog"
	"potgen/internal/textutil"
	"potgen/internal/token"
)

// state enumerates the classifier positions between token deliveries.
type state int

const (
	// stateWaiting scans for marking keywords and block headers.
	stateWaiting state = iota
	// stateBlockHeader has seen class/def and waits for the block colon.
	stateBlockHeader
	// stateBlockDoc expects the block's docstring as the next statement.
	stateBlockDoc
	// stateKeyword has seen a marking keyword and expects '('.
	stateKeyword
	// stateArgsOpen accumulates string arguments until ')'.
	stateArgsOpen
)

// Options configures the extractor.
type Options struct {
	// Keywords are the marking call names to recognize.
	Keywords map[string]struct{}
	// Docstrings enables module/class/function docstring extraction.
	Docstrings bool
	// NoDocstringFiles exempts files from docstring extraction.
	NoDocstringFiles map[string]struct{}
}

// Extractor feeds one file's tokens at a time through the classifier state
// machine, recording occurrences into the catalog. Not safe for concurrent
// use; files are scanned strictly sequentially.
type Extractor struct {
	opts Options
	cat  *catalog.Catalog

	state    state
	file     string
	fresh    bool
	callLine int
	buf      []string
}

// New creates an extractor writing occurrences into cat.
func New(opts Options, cat *catalog.Catalog) *Extractor {
	return &Extractor{opts: opts, cat: cat, state: stateWaiting}
}

// BeginFile resets the classifier for a new file.
func (e *Extractor) BeginFile(file string) {
	e.file = file
	e.fresh = true
	e.state = stateWaiting
	e.buf = nil
}

// Feed processes one token.
func (e *Extractor) Feed(tok token.Token) {
	switch e.state {
	case stateWaiting:
		e.feedWaiting(tok)
	case stateBlockHeader:
		e.feedBlockHeader(tok)
	case stateBlockDoc:
		e.feedBlockDoc(tok)
	case stateKeyword:
		e.feedKeyword(tok)
	case stateArgsOpen:
		e.feedArgsOpen(tok)
	}
}

func (e *Extractor) docstringsEnabled() bool {
	if !e.opts.Docstrings {
		return false
	}
	_, suppressed := e.opts.NoDocstringFiles[e.file]
	return !suppressed
}

func (e *Extractor) feedWaiting(tok token.Token) {
	if e.docstringsEnabled() {
		if e.fresh {
			// The module docstring is the file's first significant token;
			// whatever comes first settles the question either way.
			if tok.Kind == token.String {
				e.emit(tok.Value, tok.Loc.Line, true)
				e.fresh = false
			} else if tok.Kind != token.Comment && tok.Kind != token.BlankLine {
				e.fresh = false
			}
			return
		}
		if tok.Kind == token.Name && (tok.Text == "class" || tok.Text == "def") {
			e.state = stateBlockHeader
			return
		}
	}
	if tok.Kind == token.Name {
		if _, ok := e.opts.Keywords[tok.Text]; ok {
			e.state = stateKeyword
		}
	}
}

func (e *Extractor) feedBlockHeader(tok token.Token) {
	// Ignore everything up to the colon that opens the block body.
	if tok.Kind == token.Operator && tok.Text == ":" {
		e.state = stateBlockDoc
	}
}

func (e *Extractor) feedBlockDoc(tok token.Token) {
	switch {
	case tok.Kind == token.String:
		e.emit(tok.Value, tok.Loc.Line, true)
		e.state = stateWaiting
	case tok.Kind == token.Newline, tok.Kind == token.Indent, tok.Kind == token.Comment:
		// Intervening noise before the first statement.
	default:
		// First statement is not a docstring.
		e.state = stateWaiting
	}
}

func (e *Extractor) feedKeyword(tok token.Token) {
	if tok.Kind == token.Operator && tok.Text == "(" {
		e.buf = e.buf[:0]
		e.callLine = tok.Loc.Line
		e.state = stateArgsOpen
	} else {
		e.state = stateWaiting
	}
}

func (e *Extractor) feedArgsOpen(tok token.Token) {
	switch {
	case tok.Kind == token.Operator && tok.Text == ")":
		// Adjacent literals concatenate into one message, recorded at the
		// line of the opening parenthesis. A call with no string arguments
		// is ignored.
		if len(e.buf) > 0 {
			e.emit(strings.Join(e.buf, ""), e.callLine, false)
		}
		e.state = stateWaiting
	case tok.Kind == token.String:
		e.buf = append(e.buf, tok.Value)
	case tok.Kind == token.Comment, tok.IsLayout():
	default:
		log.Warn().
			Str("file", e.file).
			Int("line", e.callLine).
			Str("token", textutil.Truncate(tok.Text, 40)).
			Msg("Unexpected token in marked call, extraction abandoned")
		e.state = stateWaiting
	}
}

func (e *Extractor) emit(msg string, line int, isDocstring bool) {
	e.cat.Add(msg, token.Location{File: e.file, Line: line}, isDocstring)
}
