// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// inputSource is an open input stream plus its capability: seeker is
// non-nil only when the stream supports rewinding, which the
// disk-backed two-pass policies require.
type inputSource struct {
	reader io.ReadCloser
	seeker io.ReadSeeker
}

func (s *inputSource) Close() error {
	return s.reader.Close()
}

// openInput opens path for reading. "-" or the empty string means
// stdin. Files ending in .gz or .zst are decompressed transparently;
// the decompressed stream cannot seek, so such inputs count as
// non-seekable regardless of the underlying file.
func openInput(path string) (*inputSource, error) {
	if path == "" || path == "-" {
		return &inputSource{reader: io.NopCloser(os.Stdin)}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file %s: %w", path, err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		decompressor, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("reading gzip header of %s: %w", path, err)
		}
		return &inputSource{reader: &decompressedInput{
			reader: decompressor,
			close:  func() error { _ = decompressor.Close(); return file.Close() },
		}}, nil

	case strings.HasSuffix(path, ".zst"):
		decompressor, err := zstd.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("reading zstd header of %s: %w", path, err)
		}
		return &inputSource{reader: &decompressedInput{
			reader: decompressor,
			close:  func() error { decompressor.Close(); return file.Close() },
		}}, nil

	default:
		return &inputSource{reader: file, seeker: file}, nil
	}
}

// decompressedInput bundles a decompressor with the file underneath
// it so Close releases both.
type decompressedInput struct {
	reader io.Reader
	close  func() error
}

func (d *decompressedInput) Read(p []byte) (int, error) {
	return d.reader.Read(p)
}

func (d *decompressedInput) Close() error {
	return d.close()
}

// outputSink is where kept lines go. commit finalizes the output
// (rename into place for file outputs); abort cleans up after a
// failed run. Both are no-ops for stdout and --dry-run.
type outputSink struct {
	writer io.Writer
	commit func() error
	abort  func()
}

// openOutput prepares the output sink. File outputs are written to a
// temporary file in the destination directory and renamed into place
// on commit, so readers never observe a half-written result and an
// interrupted run leaves the previous file intact.
func openOutput(path string, dryRun bool) (*outputSink, error) {
	if dryRun {
		return &outputSink{writer: io.Discard, commit: func() error { return nil }, abort: func() {}}, nil
	}
	if path == "" {
		return &outputSink{writer: os.Stdout, commit: func() error { return nil }, abort: func() {}}, nil
	}

	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary output file in %s: %w", directory, err)
	}
	temporaryPath := temporary.Name()

	return &outputSink{
		writer: temporary,
		commit: func() error {
			if err := temporary.Close(); err != nil {
				_ = os.Remove(temporaryPath)
				return fmt.Errorf("closing temporary output file: %w", err)
			}
			if err := os.Rename(temporaryPath, path); err != nil {
				_ = os.Remove(temporaryPath)
				return fmt.Errorf("renaming %s to %s: %w", temporaryPath, path, err)
			}
			return nil
		},
		abort: func() {
			_ = temporary.Close()
			_ = os.Remove(temporaryPath)
		},
	}, nil
}
