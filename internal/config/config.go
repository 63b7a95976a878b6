package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"potgen/internal/catalog"
)

// DefaultKeywords are the marking names recognized when none are configured.
var DefaultKeywords = []string{"_"}

// Options holds one extraction run's configuration. Invalid values are
// caught by Validate before any scanning starts.
type Options struct {
	// ExtractAll is reserved and currently has no effect.
	ExtractAll bool
	// Keywords are the marking call names to recognize.
	Keywords []string
	// Docstrings enables module/class/function docstring extraction.
	Docstrings bool
	// NoDocstringFiles lists files exempt from docstring extraction.
	NoDocstringFiles map[string]struct{}
	// Exclude lists messages never inserted into the catalog.
	Exclude map[string]struct{}

	WriteLocations bool
	Style          catalog.Style
	Width          int
	// PassExtended lets characters 127..255 through the escaper unescaped.
	PassExtended bool

	// OutFile is the output file name, or "-" for stdout.
	OutFile string
	// OutPath, when set, is the directory prefixed to OutFile.
	OutPath string
	Verbose bool
}

// Load builds the default options, reading .env and POTGEN_* environment
// variables; CLI flags override these afterwards.
func Load() *Options {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	style, err := StyleFromName(getEnv("POTGEN_STYLE", "gnu"))
	if err != nil {
		log.Warn().Str("value", os.Getenv("POTGEN_STYLE")).Msg("Invalid POTGEN_STYLE, using gnu")
		style = catalog.StyleGNU
	}

	return &Options{
		Keywords:         append([]string(nil), DefaultKeywords...),
		NoDocstringFiles: map[string]struct{}{},
		Exclude:          map[string]struct{}{},
		WriteLocations:   true,
		Style:            style,
		Width:            getEnvInt("POTGEN_WIDTH", 78),
		OutFile:          getEnv("POTGEN_OUTPUT", "messages.pot"),
	}
}

// Validate rejects configurations that must abort before scanning.
func (o *Options) Validate() error {
	if o.Width < 1 {
		return fmt.Errorf("width must be a positive integer, got %d", o.Width)
	}
	if o.Style != catalog.StyleGNU && o.Style != catalog.StyleSolaris {
		return fmt.Errorf("unknown location style")
	}
	return nil
}

// KeywordSet returns the keywords as a lookup set.
func (o *Options) KeywordSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.Keywords))
	for _, k := range o.Keywords {
		set[k] = struct{}{}
	}
	return set
}

// StyleFromName maps a style name (case insensitive) to its enum value.
// Unknown names are a configuration error.
func StyleFromName(name string) (catalog.Style, error) {
	switch {
	case strings.EqualFold(name, "gnu"):
		return catalog.StyleGNU, nil
	case strings.EqualFold(name, "solaris"):
		return catalog.StyleSolaris, nil
	}
	return 0, fmt.Errorf("invalid location style %q", name)
}

// LoadExcludeFile reads messages to suppress, one per line, into o.Exclude.
// An unreadable file is fatal.
func (o *Options) LoadExcludeFile(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return fmt.Errorf("read exclude file: %w", err)
	}
	for _, line := range lines {
		o.Exclude[line] = struct{}{}
	}
	return nil
}

// LoadNoDocstringsFile reads file names exempt from docstring extraction,
// one per line, into o.NoDocstringFiles.
func (o *Options) LoadNoDocstringsFile(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return fmt.Errorf("read no-docstrings file: %w", err)
	}
	for _, line := range lines {
		o.NoDocstringFiles[line] = struct{}{}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
