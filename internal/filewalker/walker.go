package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// SourceSuffixes lists the Python source extensions the extractor scans.
var SourceSuffixes = map[string]bool{
	".py": true,
}

// Resolve expands one command-line argument to source files: a directory
// yields every Python file under it, a Python file yields itself, anything
// else yields nothing.
func Resolve(name string) ([]string, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}

	if !info.IsDir() {
		if SourceSuffixes[strings.ToLower(filepath.Ext(name))] {
			return []string{name}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.Walk(name, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if SourceSuffixes[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Debug().Int("count", len(files)).Str("root", name).Msg("Discovered source files")
	return files, nil
}
