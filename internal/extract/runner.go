package extract

import (
	"github.com/rs/zerolog/log"

	"potgen/internal/lexer"
)

// Scan runs one file's source through the lexer and the classifier. A
// lexical failure is logged and ends that file's scan; occurrences collected
// before the failure stay in the catalog. Files share the classifier, so
// calls must stay sequential.
func (e *Extractor) Scan(file string, src []byte) {
	e.BeginFile(file)
	if err := lexer.Tokenize(file, src, e.Feed); err != nil {
		log.Error().Err(err).Str("file", file).Msg("Tokenization failed, skipping rest of file")
	}
}
