// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"bytes"
	"strings"
	"testing"
)

// run deduplicates input with the given options and returns the
// output and stats. Fails the test on error.
func run(t *testing.T, input string, opts Options) (string, Stats) {
	t.Helper()
	var output bytes.Buffer
	stats, err := Deduplicate(strings.NewReader(input), &output, opts)
	if err != nil {
		t.Fatalf("Deduplicate: %v", err)
	}
	if got := stats.LinesWritten + stats.LinesRemoved; got != stats.LinesRead {
		t.Fatalf("written(%d) + removed(%d) = %d, want lines read %d",
			stats.LinesWritten, stats.LinesRemoved, got, stats.LinesRead)
	}
	return output.String(), stats
}

func TestKeepFirst(t *testing.T) {
	output, stats := run(t, "line1\nline2\nline1\nline3\n", Options{})
	if output != "line1\nline2\nline3\n" {
		t.Errorf("output = %q", output)
	}
	if stats.LinesRead != 4 || stats.LinesWritten != 3 || stats.LinesRemoved != 1 || stats.UniqueLines != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestKeepFirstIdempotent(t *testing.T) {
	first, _ := run(t, "a\nb\na\nc\nb\n", Options{})
	second, _ := run(t, first, Options{})
	if second != first {
		t.Errorf("second run changed output: %q -> %q", first, second)
	}
}

func TestKeepLast(t *testing.T) {
	output, stats := run(t, "a\nb\na\nc\n", Options{Mode: KeepLast})
	if output != "b\na\nc\n" {
		t.Errorf("output = %q, want %q", output, "b\na\nc\n")
	}
	if stats.LinesWritten != 3 || stats.LinesRemoved != 1 || stats.UniqueLines != 3 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRemoveAll(t *testing.T) {
	output, stats := run(t, "a\nb\na\nc\n", Options{Mode: RemoveAll})
	if output != "b\nc\n" {
		t.Errorf("output = %q, want %q", output, "b\nc\n")
	}
	if stats.UniqueLines != 2 {
		t.Errorf("unique = %d, want 2", stats.UniqueLines)
	}
}

func TestRemoveAllOutputHasNoDuplicatedKeys(t *testing.T) {
	input := "x\ny\nx\nz\ny\nw\n"
	output, _ := run(t, input, Options{Mode: RemoveAll})

	counts := make(map[string]int)
	for _, line := range strings.Split(strings.TrimSuffix(input, "\n"), "\n") {
		counts[line]++
	}
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		if counts[line] > 1 {
			t.Errorf("output contains %q, whose key occurs %d times in the input", line, counts[line])
		}
	}
}

func TestIgnoreCase(t *testing.T) {
	output, stats := run(t, "Apple\napple\nBanana\n", Options{IgnoreCase: true})
	if output != "Apple\nBanana\n" {
		t.Errorf("output = %q, want %q", output, "Apple\nBanana\n")
	}
	if stats.UniqueLines != 2 {
		t.Errorf("unique = %d, want 2", stats.UniqueLines)
	}
}

func TestColumnKeying(t *testing.T) {
	output, _ := run(t, "1\tapple\n2\tbanana\n1\torange\n", Options{Column: 1})
	if output != "1\tapple\n2\tbanana\n" {
		t.Errorf("output = %q", output)
	}
}

func TestEmptyInput(t *testing.T) {
	for _, mode := range []Mode{KeepFirst, KeepLast, RemoveAll} {
		t.Run(mode.String(), func(t *testing.T) {
			output, stats := run(t, "", Options{Mode: mode})
			if output != "" {
				t.Errorf("output = %q, want empty", output)
			}
			if stats != (Stats{}) {
				t.Errorf("stats = %+v, want all zero", stats)
			}
		})
	}
}

func TestCountKeepFirst(t *testing.T) {
	output, _ := run(t, "a\nb\na\na\n", Options{Count: true})
	want := "      3 a\n      1 b\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestCountKeepLast(t *testing.T) {
	output, _ := run(t, "a\nb\na\n", Options{Mode: KeepLast, Count: true})
	want := "      1 b\n      2 a\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestCountRemoveAll(t *testing.T) {
	output, _ := run(t, "a\nb\na\n", Options{Mode: RemoveAll, Count: true})
	want := "      1 b\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestShowRemoved(t *testing.T) {
	output, _ := run(t, "a\nb\na\n", Options{ShowRemoved: true})
	want := "a\nb\n[REMOVED] a\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestShowRemovedKeepLast(t *testing.T) {
	// Removed lines appear at their original position, keepers at
	// theirs.
	output, _ := run(t, "a\nb\na\n", Options{Mode: KeepLast, ShowRemoved: true})
	want := "[REMOVED] a\nb\na\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestTerminatorNormalization(t *testing.T) {
	// CRLF and LF spellings of the same content share a key, and kept
	// lines are always emitted with a single '\n'.
	output, stats := run(t, "x\r\ny\nx\n", Options{})
	if output != "x\ny\n" {
		t.Errorf("output = %q, want %q", output, "x\ny\n")
	}
	if stats.LinesRemoved != 1 {
		t.Errorf("removed = %d, want 1", stats.LinesRemoved)
	}
}

func TestShowRemovedPreservesOriginalTerminator(t *testing.T) {
	output, _ := run(t, "x\nx\r\n", Options{ShowRemoved: true})
	want := "x\n[REMOVED] x\r\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestUnterminatedFinalLine(t *testing.T) {
	output, stats := run(t, "a\nb", Options{})
	if output != "a\nb\n" {
		t.Errorf("output = %q, want %q", output, "a\nb\n")
	}
	if stats.LinesRead != 2 {
		t.Errorf("lines read = %d, want 2", stats.LinesRead)
	}
}

func TestInvalidUTF8Lines(t *testing.T) {
	input := string([]byte{0xFF, 0xFE, '\n', 0xFF, 0xFE, '\n', 'a', '\n'})
	_, stats := run(t, input, Options{})
	if stats.LinesWritten != 2 {
		t.Errorf("written = %d, want 2", stats.LinesWritten)
	}
}

func TestBlankLinesAreKeys(t *testing.T) {
	output, _ := run(t, "\na\n\n", Options{})
	if output != "\na\n" {
		t.Errorf("output = %q, want %q", output, "\na\n")
	}
}
