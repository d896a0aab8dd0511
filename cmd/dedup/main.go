// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dedup/lib/config"
	"github.com/bureau-foundation/dedup/lib/dedup"
	"github.com/bureau-foundation/dedup/lib/kvstore"
	"github.com/bureau-foundation/dedup/lib/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// cliFlags holds the parsed command line. flagSet is retained so the
// defaults-file merge can ask which flags the user actually set.
type cliFlags struct {
	output      string
	count       bool
	ignoreCase  bool
	keepLast    bool
	removeAll   bool
	showRemoved bool
	stats       bool
	dryRun      bool
	column      int
	useDisk     bool
	configPath  string
	verbose     bool

	input   string
	flagSet *pflag.FlagSet
}

func parseFlags(args []string) (*cliFlags, error) {
	flags := &cliFlags{}
	flagSet := pflag.NewFlagSet("dedup", pflag.ContinueOnError)
	flagSet.SortFlags = false
	flags.flagSet = flagSet

	flagSet.StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	flagSet.BoolVarP(&flags.count, "count", "c", false, "prefix kept lines with their occurrence count")
	flagSet.BoolVarP(&flags.ignoreCase, "ignore-case", "i", false, "ignore case when comparing lines")
	flagSet.BoolVar(&flags.keepLast, "keep-last", false, "keep the last occurrence instead of the first (two-pass)")
	flagSet.BoolVar(&flags.removeAll, "remove-all", false, "remove every line that occurs more than once (two-pass)")
	flagSet.BoolVar(&flags.showRemoved, "show-removed", false, "emit removed lines with a [REMOVED] prefix")
	flagSet.BoolVar(&flags.stats, "stats", false, "print run statistics to stderr")
	flagSet.BoolVar(&flags.dryRun, "dry-run", false, "run without writing output (useful with --stats)")
	flagSet.IntVar(&flags.column, "column", 0, "key on the Nth whitespace-separated column (1-based)")
	flagSet.BoolVar(&flags.useDisk, "use-disk", false, "keep deduplication state on disk instead of in memory")
	flagSet.StringVar(&flags.configPath, "config", "", "YAML defaults file (also: DEDUP_CONFIG)")
	flagSet.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}

	positional := flagSet.Args()
	if len(positional) > 1 {
		return nil, fmt.Errorf("expected at most one input file, got %d arguments", len(positional))
	}
	if len(positional) == 1 {
		flags.input = positional[0]
	}
	return flags, nil
}

// buildOptions merges flags over file defaults into engine options.
// A flag the user set always wins; the defaults file only fills in
// the rest.
func buildOptions(flags *cliFlags, defaults *config.Defaults, logger *slog.Logger) (dedup.Options, error) {
	if flags.keepLast && flags.removeAll {
		return dedup.Options{}, fmt.Errorf("--keep-last and --remove-all are mutually exclusive")
	}
	if flags.column < 0 {
		return dedup.Options{}, fmt.Errorf("--column must not be negative (got %d)", flags.column)
	}

	opts := dedup.Options{
		Mode:        dedup.KeepFirst,
		IgnoreCase:  flags.ignoreCase,
		Count:       flags.count,
		ShowRemoved: flags.showRemoved,
		Column:      flags.column,
		UseDisk:     flags.useDisk,
		Logger:      logger,
	}

	var storeDir string
	if defaults != nil {
		if !flags.flagSet.Changed("ignore-case") {
			opts.IgnoreCase = defaults.IgnoreCase
		}
		if !flags.flagSet.Changed("count") {
			opts.Count = defaults.Count
		}
		if !flags.flagSet.Changed("show-removed") {
			opts.ShowRemoved = defaults.ShowRemoved
		}
		if !flags.flagSet.Changed("column") {
			opts.Column = defaults.Column
		}
		if !flags.flagSet.Changed("use-disk") {
			opts.UseDisk = defaults.UseDisk
		}
		if defaults.Mode != "" {
			mode, err := dedup.ParseMode(defaults.Mode)
			if err != nil {
				return dedup.Options{}, err
			}
			opts.Mode = mode
		}
		storeDir = defaults.StoreDir
	}

	// Mode flags override a defaults-file mode.
	if flags.keepLast {
		opts.Mode = dedup.KeepLast
	}
	if flags.removeAll {
		opts.Mode = dedup.RemoveAll
	}

	if opts.UseDisk {
		opts.OpenStore = func() (kvstore.Store, error) {
			return kvstore.OpenSQLite(kvstore.SQLiteConfig{Dir: storeDir, Logger: logger})
		}
	}
	return opts, nil
}

func run(args []string) int {
	// Handle --version before flag parsing to match other binaries.
	for _, argument := range args {
		if argument == "--version" {
			version.Print("dedup")
			return 0
		}
	}

	flags, err := parseFlags(args)
	if err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if help, _ := flags.flagSet.GetBool("help"); help {
		flags.flagSet.SetOutput(os.Stderr)
		fmt.Fprintln(os.Stderr, "Usage: dedup [flags] [FILE]")
		fmt.Fprintln(os.Stderr)
		flags.flagSet.PrintDefaults()
		return 0
	}

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var defaults *config.Defaults
	if flags.configPath != "" {
		defaults, err = config.LoadFile(flags.configPath)
	} else {
		defaults, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	opts, err := buildOptions(flags, defaults, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	stats, err := execute(flags.input, flags.output, flags.dryRun, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if flags.stats {
		fmt.Fprintln(os.Stderr, "Statistics:")
		fmt.Fprintf(os.Stderr, "  Lines read:    %d\n", stats.LinesRead)
		fmt.Fprintf(os.Stderr, "  Lines written: %d\n", stats.LinesWritten)
		fmt.Fprintf(os.Stderr, "  Lines removed: %d\n", stats.LinesRemoved)
		fmt.Fprintf(os.Stderr, "  Unique lines:  %d\n", stats.UniqueLines)
	}
	return 0
}

// execute opens input and output and runs the engine, routing to the
// seekable entry point when the input supports it.
func execute(inputPath, outputPath string, dryRun bool, opts dedup.Options) (dedup.Stats, error) {
	source, err := openInput(inputPath)
	if err != nil {
		return dedup.Stats{}, err
	}
	defer source.Close()

	sink, err := openOutput(outputPath, dryRun)
	if err != nil {
		return dedup.Stats{}, err
	}

	var stats dedup.Stats
	if source.seeker != nil {
		stats, err = dedup.DeduplicateSeekable(source.seeker, sink.writer, opts)
	} else {
		stats, err = dedup.Deduplicate(source.reader, sink.writer, opts)
	}
	if err != nil {
		sink.abort()
		return stats, err
	}
	if err := sink.commit(); err != nil {
		return stats, err
	}
	return stats, nil
}
