// Package catalog aggregates extracted messages and serializes them as a
// gettext template.
package catalog

import (
	"potgen/internal/token"
)

// Catalog collects message occurrences during one scanning pass. It is
// append-only until written, and filters excluded messages at insertion.
type Catalog struct {
	// messages maps message text to its occurrences; the bool records
	// whether the occurrence at that location came from a docstring.
	messages map[string]map[token.Location]bool
	exclude  map[string]struct{}
}

// New creates an empty catalog. Messages in exclude are silently dropped on
// insertion for the whole run.
func New(exclude map[string]struct{}) *Catalog {
	if exclude == nil {
		exclude = map[string]struct{}{}
	}
	return &Catalog{
		messages: make(map[string]map[token.Location]bool),
		exclude:  exclude,
	}
}

// Add records one occurrence of msg. Re-adding at the same location
// overwrites the docstring flag; excluded messages are a no-op.
func (c *Catalog) Add(msg string, loc token.Location, isDocstring bool) {
	if _, excluded := c.exclude[msg]; excluded {
		return
	}
	occ, ok := c.messages[msg]
	if !ok {
		occ = make(map[token.Location]bool)
		c.messages[msg] = occ
	}
	occ[loc] = isDocstring
}

// Len returns the number of distinct messages collected.
func (c *Catalog) Len() int {
	return len(c.messages)
}
