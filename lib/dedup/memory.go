// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bureau-foundation/dedup/lib/lineio"
)

// keepFirst is the one-pass keep-first policy on in-memory state.
// Without counting it streams: each keeper is written the moment it
// is read. With counting, keepers are deferred and replayed at end of
// stream once their final tallies are known. Removed lines are never
// deferred.
func keepFirst(scanner *lineio.Scanner, writer *bufio.Writer, opts Options) (Stats, error) {
	var stats Stats
	seen := make(map[string]int64)
	var keepers [][]byte

	for {
		line, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading input: %w", err)
		}
		stats.LinesRead++

		key := string(deriveKey(lineio.StripTerminator(line), opts))
		seen[key]++

		if seen[key] == 1 {
			stats.LinesWritten++
			if opts.Count {
				keepers = append(keepers, line)
			} else if err := writeKept(writer, opts, line, 0); err != nil {
				return stats, err
			}
		} else {
			stats.LinesRemoved++
			if opts.ShowRemoved {
				if err := writeRemoved(writer, line); err != nil {
					return stats, err
				}
			}
		}
	}
	stats.UniqueLines = int64(len(seen))

	for _, line := range keepers {
		key := string(deriveKey(lineio.StripTerminator(line), opts))
		if err := writeKept(writer, opts, line, seen[key]); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// occurrence is the per-key record for the two-pass policies.
type occurrence struct {
	lastIndex int64
	count     int64
}

// keepLast buffers the whole input in pass 1 while recording each
// key's last-seen line index and total count, then replays the buffer
// keeping exactly the last occurrences.
func keepLast(scanner *lineio.Scanner, writer *bufio.Writer, opts Options) (Stats, error) {
	var stats Stats
	occurrences := make(map[string]*occurrence)
	var lines [][]byte
	var lineKeys []string

	for {
		line, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading input: %w", err)
		}

		key := string(deriveKey(lineio.StripTerminator(line), opts))
		record := occurrences[key]
		if record == nil {
			record = &occurrence{}
			occurrences[key] = record
		}
		record.lastIndex = stats.LinesRead
		record.count++

		stats.LinesRead++
		lines = append(lines, line)
		lineKeys = append(lineKeys, key)
	}
	stats.UniqueLines = int64(len(occurrences))

	for index, line := range lines {
		record := occurrences[lineKeys[index]]
		if record.lastIndex == int64(index) {
			stats.LinesWritten++
			if err := writeKept(writer, opts, line, record.count); err != nil {
				return stats, err
			}
		} else {
			stats.LinesRemoved++
			if opts.ShowRemoved {
				if err := writeRemoved(writer, line); err != nil {
					return stats, err
				}
			}
		}
	}
	return stats, nil
}

// removeAll buffers the whole input in pass 1 while counting key
// occurrences, then replays the buffer keeping exactly the keys that
// occurred once.
func removeAll(scanner *lineio.Scanner, writer *bufio.Writer, opts Options) (Stats, error) {
	var stats Stats
	counts := make(map[string]int64)
	var lines [][]byte
	var lineKeys []string

	for {
		line, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading input: %w", err)
		}
		stats.LinesRead++

		key := string(deriveKey(lineio.StripTerminator(line), opts))
		counts[key]++
		lines = append(lines, line)
		lineKeys = append(lineKeys, key)
	}
	for _, count := range counts {
		if count == 1 {
			stats.UniqueLines++
		}
	}

	for index, line := range lines {
		if counts[lineKeys[index]] == 1 {
			stats.LinesWritten++
			if err := writeKept(writer, opts, line, 1); err != nil {
				return stats, err
			}
		} else {
			stats.LinesRemoved++
			if opts.ShowRemoved {
				if err := writeRemoved(writer, line); err != nil {
					return stats, err
				}
			}
		}
	}
	return stats, nil
}

// writeKept writes one kept line: optional count prefix, stripped
// content, exactly one newline. Source terminators ("\n" or "\r\n")
// are normalized to '\n'.
func writeKept(writer *bufio.Writer, opts Options, line []byte, count int64) error {
	if opts.Count {
		if _, err := fmt.Fprintf(writer, "%7d ", count); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if _, err := writer.Write(lineio.StripTerminator(line)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// writeRemoved writes one removed line: the marker, then the original
// bytes with their terminator intact.
func writeRemoved(writer *bufio.Writer, line []byte) error {
	if _, err := writer.WriteString(removedMarker); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
