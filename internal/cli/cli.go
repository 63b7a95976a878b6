// Package cli wires the command-line surface of potgen.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"potgen/internal/catalog"
	"potgen/internal/config"
	"potgen/internal/extract"
	"potgen/internal/filewalker"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// flagValues collects raw flag state that needs post-processing before it
// lands in config.Options.
type flagValues struct {
	keywords          []string
	noDefaultKeywords bool
	addLocation       bool
	noLocation        bool
	styleName         string
	excludeFile       string
	noDocstringsFile  string
	defaultDomain     string
	passExtended      bool
}

func rootCmd() *cobra.Command {
	var fv flagValues
	opts := config.Load()

	cmd := &cobra.Command{
		Use:     "potgen [options] inputfile ...",
		Short:   "Extract translatable messages from Python sources into a gettext template",
		Long:    "potgen scans Python source files for messages marked for translation\n(and optionally docstrings) and writes a .pot catalog template.",
		Version: catalog.Version,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyFlags(cmd, opts, &fv); err != nil {
				return err
			}
			if opts.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			return runExtract(opts, args)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVarP(&opts.ExtractAll, "extract-all", "a", false, "extract all strings (reserved, currently no effect)")
	cmd.Flags().StringVarP(&fv.defaultDomain, "default-domain", "d", "", "rename the output file to <name>.pot")
	cmd.Flags().BoolVarP(&fv.passExtended, "escape", "E", false, "let characters 127-255 pass through unescaped instead of octal-escaping them")
	cmd.Flags().BoolVarP(&opts.Docstrings, "docstrings", "D", false, "extract module, class, method, and function docstrings")
	cmd.Flags().StringArrayVarP(&fv.keywords, "keyword", "k", nil, "keyword to look for in addition to the default set (repeatable)")
	cmd.Flags().BoolVarP(&fv.noDefaultKeywords, "no-default-keywords", "K", false, "disable the default keyword set")
	cmd.Flags().BoolVarP(&fv.addLocation, "add-location", "n", true, "write filename/lineno location comments (default)")
	cmd.Flags().BoolVar(&fv.noLocation, "no-location", false, "do not write location comments")
	cmd.Flags().StringVarP(&opts.OutFile, "output", "o", opts.OutFile, "output file name; '-' writes to standard output")
	cmd.Flags().StringVarP(&opts.OutPath, "output-dir", "p", "", "directory for output files")
	cmd.Flags().StringVarP(&fv.styleName, "style", "S", "gnu", "location comment style: gnu or solaris")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print the names of the files being processed")
	cmd.Flags().IntVarP(&opts.Width, "width", "w", opts.Width, "output width for packed location comments")
	cmd.Flags().StringVarP(&fv.excludeFile, "exclude-file", "x", "", "file listing strings not to extract, one per line")
	cmd.Flags().StringVarP(&fv.noDocstringsFile, "no-docstrings", "X", "", "file listing files whose docstrings are not extracted, one per line")

	return cmd
}

// applyFlags folds raw flag state into the options and loads the list files.
// Flags left at their defaults keep the loaded (env-derived) option values.
// Any failure here aborts the run before scanning starts.
func applyFlags(cmd *cobra.Command, opts *config.Options, fv *flagValues) error {
	if fv.noDefaultKeywords {
		opts.Keywords = nil
	}
	opts.Keywords = append(opts.Keywords, fv.keywords...)
	if cmd.Flags().Changed("add-location") {
		opts.WriteLocations = fv.addLocation
	}
	if fv.noLocation {
		opts.WriteLocations = false
	}
	if cmd.Flags().Changed("style") {
		style, err := config.StyleFromName(fv.styleName)
		if err != nil {
			return err
		}
		opts.Style = style
	}
	opts.PassExtended = fv.passExtended
	if fv.defaultDomain != "" {
		opts.OutFile = fv.defaultDomain + ".pot"
	}
	if fv.excludeFile != "" {
		if err := opts.LoadExcludeFile(fv.excludeFile); err != nil {
			return err
		}
	}
	if fv.noDocstringsFile != "" {
		if err := opts.LoadNoDocstringsFile(fv.noDocstringsFile); err != nil {
			return err
		}
	}
	return opts.Validate()
}

// runExtract scans every resolved input sequentially into one catalog and
// writes the template.
func runExtract(opts *config.Options, args []string) error {
	cat := catalog.New(opts.Exclude)
	ex := extract.New(extract.Options{
		Keywords:         opts.KeywordSet(),
		Docstrings:       opts.Docstrings,
		NoDocstringFiles: opts.NoDocstringFiles,
	}, cat)

	for _, arg := range args {
		if arg == "-" {
			log.Debug().Msg("Reading standard input")
			src, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read standard input: %w", err)
			}
			ex.Scan("-", src)
			continue
		}

		files, err := filewalker.Resolve(arg)
		if err != nil {
			return err
		}
		for _, file := range files {
			log.Debug().Str("file", file).Msg("Working on file")
			src, err := os.ReadFile(file)
			if err != nil {
				log.Error().Err(err).Str("file", file).Msg("Cannot read file, skipping")
				continue
			}
			ex.Scan(file, src)
		}
	}

	out, closeOut, err := openOutput(opts)
	if err != nil {
		return err
	}
	defer closeOut()

	werr := cat.Write(out, catalog.WriterOptions{
		WriteLocations: opts.WriteLocations,
		Style:          opts.Style,
		Width:          opts.Width,
		Escaper:        catalog.NewEscaper(opts.PassExtended),
	})
	if werr != nil {
		return fmt.Errorf("write template: %w", werr)
	}

	log.Info().Int("messages", cat.Len()).Msg("Extraction complete")
	return nil
}

func openOutput(opts *config.Options) (io.Writer, func(), error) {
	if opts.OutFile == "-" {
		return os.Stdout, func() {}, nil
	}
	path := opts.OutFile
	if opts.OutPath != "" {
		path = filepath.Join(opts.OutPath, opts.OutFile)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Str("path", path).Msg("Close output file")
		}
	}, nil
}
