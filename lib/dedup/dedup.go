// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bureau-foundation/dedup/lib/lineio"
)

// Deduplicate runs the configured policy over input and writes kept
// (and, optionally, marked-removed) lines to output. It accepts any
// reader, so the disk-backed two-pass combinations (UseDisk with
// KeepLast or RemoveAll) are rejected with ErrInvalidArgument: they
// re-read the input and need a seekable source. Use
// DeduplicateSeekable with a file for those.
//
// Output is buffered internally and flushed before returning.
func Deduplicate(input io.Reader, output io.Writer, opts Options) (Stats, error) {
	if err := validate(opts); err != nil {
		return Stats{}, err
	}
	if opts.UseDisk && (opts.Mode == KeepLast || opts.Mode == RemoveAll) {
		return Stats{}, fmt.Errorf(
			"%w: disk-backed %s requires a seekable input; use DeduplicateSeekable with a file",
			ErrInvalidArgument, opts.Mode)
	}

	scanner := lineio.NewScanner(input)
	writer := bufio.NewWriter(output)

	var stats Stats
	var err error
	switch {
	case opts.UseDisk:
		stats, err = keepFirstDisk(scanner, writer, opts)
	case opts.Mode == KeepFirst:
		stats, err = keepFirst(scanner, writer, opts)
	case opts.Mode == KeepLast:
		stats, err = keepLast(scanner, writer, opts)
	default:
		stats, err = removeAll(scanner, writer, opts)
	}
	if err != nil {
		return stats, err
	}
	if err := writer.Flush(); err != nil {
		return stats, fmt.Errorf("flushing output: %w", err)
	}

	opts.logger().Debug("deduplication run complete",
		"mode", opts.Mode.String(),
		"disk", opts.UseDisk,
		"lines_read", stats.LinesRead,
		"lines_written", stats.LinesWritten,
		"lines_removed", stats.LinesRemoved,
		"unique_lines", stats.UniqueLines,
	)
	return stats, nil
}

// DeduplicateSeekable is Deduplicate for seekable inputs. It supports
// every mode/engine combination; the disk-backed two-pass policies
// rewind input to its start for their second pass. Everything else
// delegates to Deduplicate.
func DeduplicateSeekable(input io.ReadSeeker, output io.Writer, opts Options) (Stats, error) {
	if err := validate(opts); err != nil {
		return Stats{}, err
	}
	if !opts.UseDisk || opts.Mode == KeepFirst {
		return Deduplicate(input, output, opts)
	}

	writer := bufio.NewWriter(output)
	var stats Stats
	var err error
	if opts.Mode == KeepLast {
		stats, err = keepLastDisk(input, writer, opts)
	} else {
		stats, err = removeAllDisk(input, writer, opts)
	}
	if err != nil {
		return stats, err
	}
	if err := writer.Flush(); err != nil {
		return stats, fmt.Errorf("flushing output: %w", err)
	}

	opts.logger().Debug("deduplication run complete",
		"mode", opts.Mode.String(),
		"disk", true,
		"lines_read", stats.LinesRead,
		"lines_written", stats.LinesWritten,
		"lines_removed", stats.LinesRemoved,
		"unique_lines", stats.UniqueLines,
	)
	return stats, nil
}

// validate defensively rejects mode values outside the enum. The CLI
// layer constructs the mode once from mutually exclusive flags; a bad
// value here means a programming error in the caller, reported rather
// than silently treated as a default.
func validate(opts Options) error {
	switch opts.Mode {
	case KeepFirst, KeepLast, RemoveAll:
		return nil
	default:
		return fmt.Errorf("%w: unknown deduplication mode %d", ErrInvalidArgument, int(opts.Mode))
	}
}
