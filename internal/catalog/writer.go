package catalog

import (
	"fmt"
	"io"
	"sort"
	"time"

	"potgen/internal/token"
)

// Version is the engine version stamped into the template header.
const Version = "1.5"

// Style selects the location-comment format.
type Style int

const (
	// StyleGNU packs locations on '#:' lines up to the configured width.
	StyleGNU Style = iota + 1
	// StyleSolaris writes one '# File: f, line: n' comment per location.
	StyleSolaris
)

// WriterOptions controls template serialization.
type WriterOptions struct {
	WriteLocations bool
	Style          Style
	// Width bounds '#:' line length in the GNU style.
	Width   int
	Escaper *Escaper
	// Now supplies the header timestamp; defaults to time.Now.
	Now func() time.Time
}

const potHeader = `# SOME DESCRIPTIVE TITLE.
# Copyright (C) YEAR ORGANIZATION
# FIRST AUTHOR <EMAIL@ADDRESS>, YEAR.
#
msgid ""
msgstr ""
"Project-Id-Version: PACKAGE VERSION\n"
"POT-Creation-Date: %s\n"
"PO-Revision-Date: YEAR-MO-DA HO:MI+ZONE\n"
"Last-Translator: FULL NAME <EMAIL@ADDRESS>\n"
"Language-Team: LANGUAGE <LL@li.org>\n"
"MIME-Version: 1.0\n"
"Content-Type: text/plain; charset=CHARSET\n"
"Content-Transfer-Encoding: ENCODING\n"
"Generated-By: potgen %s\n"


`

type entry struct {
	msg  string
	locs []token.Location
	// docstring is set when any occurrence came from a docstring.
	docstring bool
}

// compareLocs orders location tuples elementwise by (file, line), shorter
// tuples first on a tie.
func compareLocs(a, b []token.Location) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i].File != b[i].File {
			if a[i].File < b[i].File {
				return -1
			}
			return 1
		}
		if a[i].Line != b[i].Line {
			if a[i].Line < b[i].Line {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Write serializes the catalog: header, then entries ordered first by their
// sorted location tuple and then by message text, so output is independent of
// scan order.
func (c *Catalog) Write(w io.Writer, opts WriterOptions) error {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	timestamp := now().Format("2006-01-02 15:04+MST")
	if _, err := fmt.Fprintf(w, potHeader, timestamp, Version); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	entries := make([]entry, 0, len(c.messages))
	for msg, occ := range c.messages {
		e := entry{msg: msg, locs: make([]token.Location, 0, len(occ))}
		for loc, isDoc := range occ {
			e.locs = append(e.locs, loc)
			if isDoc {
				e.docstring = true
			}
		}
		sort.Slice(e.locs, func(i, j int) bool {
			if e.locs[i].File != e.locs[j].File {
				return e.locs[i].File < e.locs[j].File
			}
			return e.locs[i].Line < e.locs[j].Line
		})
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if d := compareLocs(entries[i].locs, entries[j].locs); d != 0 {
			return d < 0
		}
		return entries[i].msg < entries[j].msg
	})

	for _, e := range entries {
		if err := writeEntry(w, e, opts); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(w io.Writer, e entry, opts WriterOptions) error {
	if opts.WriteLocations {
		switch opts.Style {
		case StyleSolaris:
			for _, loc := range e.locs {
				if _, err := fmt.Fprintf(w, "# File: %s, line: %d\n", loc.File, loc.Line); err != nil {
					return fmt.Errorf("write location: %w", err)
				}
			}
		case StyleGNU:
			locline := "#:"
			for _, loc := range e.locs {
				s := fmt.Sprintf(" %s:%d", loc.File, loc.Line)
				if len(locline)+len(s) <= opts.Width {
					locline += s
					continue
				}
				if _, err := fmt.Fprintln(w, locline); err != nil {
					return fmt.Errorf("write location: %w", err)
				}
				locline = "#:" + s
			}
			if len(locline) > 2 {
				if _, err := fmt.Fprintln(w, locline); err != nil {
					return fmt.Errorf("write location: %w", err)
				}
			}
		}
	}
	if e.docstring {
		if _, err := fmt.Fprintln(w, "#, docstring"); err != nil {
			return fmt.Errorf("write docstring marker: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "msgid %s\nmsgstr \"\"\n\n", opts.Escaper.Normalize(e.msg)); err != nil {
		return fmt.Errorf("write msgid: %w", err)
	}
	return nil
}
