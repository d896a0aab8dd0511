// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bureau-foundation/dedup/lib/kvstore"
	"github.com/bureau-foundation/dedup/lib/lineio"
)

// Disk-backed engine. Same policies as memory.go, but per-key
// metadata lives in an ephemeral kvstore.Store so peak memory stays
// bounded by the store's cache rather than the number of distinct
// keys. Values are fixed-width little-endian integers:
//
//	keep-first, remove-all:  8 bytes  [count u64]
//	keep-last:              16 bytes  [last-seen line index u64 | count u64]
//
// The two-pass policies re-read the input from the start instead of
// buffering it, which is why they need a seekable source.

// storeError wraps a store failure into the invalid-argument kind.
// Store failures are terminal for the run; they do not get their own
// error category.
func storeError(err error) error {
	return fmt.Errorf("%w: key-value store: %v", ErrInvalidArgument, err)
}

// bumpCount increments the 8-byte occurrence counter stored under
// key, creating it at 1, and returns the new count.
func bumpCount(store kvstore.Store, key []byte) (uint64, error) {
	value, ok, err := store.Get(key)
	if err != nil {
		return 0, storeError(err)
	}
	count := uint64(1)
	if ok {
		count = binary.LittleEndian.Uint64(value) + 1
	}
	encoded := make([]byte, 8)
	binary.LittleEndian.PutUint64(encoded, count)
	if err := store.Put(key, encoded); err != nil {
		return 0, storeError(err)
	}
	return count, nil
}

// keepFirstDisk mirrors keepFirst with counts in the store. Still one
// pass, so it works on non-seekable inputs.
func keepFirstDisk(scanner *lineio.Scanner, writer *bufio.Writer, opts Options) (Stats, error) {
	var stats Stats
	store, err := opts.openStore()
	if err != nil {
		return stats, err
	}
	defer store.Close()

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

		key := deriveKey(lineio.StripTerminator(line), opts)
		count, err := bumpCount(store, key)
		if err != nil {
			return stats, err
		}

		if count == 1 {
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

	stats.UniqueLines, err = store.Len()
	if err != nil {
		return stats, storeError(err)
	}

	for _, line := range keepers {
		key := deriveKey(lineio.StripTerminator(line), opts)
		value, ok, err := store.Get(key)
		if err != nil {
			return stats, storeError(err)
		}
		if !ok {
			return stats, storeError(fmt.Errorf("key missing at end of stream"))
		}
		count := int64(binary.LittleEndian.Uint64(value))
		if err := writeKept(writer, opts, line, count); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// keepLastDisk runs keep-last with store-resident metadata: pass 1
// records each key's last-seen index and count, pass 2 rewinds the
// input and keeps lines whose index matches the stored last index.
func keepLastDisk(input io.ReadSeeker, writer *bufio.Writer, opts Options) (Stats, error) {
	var stats Stats
	store, err := opts.openStore()
	if err != nil {
		return stats, err
	}
	defer store.Close()

	scanner := lineio.NewScanner(input)
	for {
		line, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading input: %w", err)
		}

		key := deriveKey(lineio.StripTerminator(line), opts)
		value, ok, err := store.Get(key)
		if err != nil {
			return stats, storeError(err)
		}
		count := uint64(1)
		if ok {
			count = binary.LittleEndian.Uint64(value[8:]) + 1
		}
		encoded := make([]byte, 16)
		binary.LittleEndian.PutUint64(encoded[:8], uint64(stats.LinesRead))
		binary.LittleEndian.PutUint64(encoded[8:], count)
		if err := store.Put(key, encoded); err != nil {
			return stats, storeError(err)
		}
		stats.LinesRead++
	}

	stats.UniqueLines, err = store.Len()
	if err != nil {
		return stats, storeError(err)
	}

	if _, err := input.Seek(0, io.SeekStart); err != nil {
		return stats, fmt.Errorf("rewinding input for second pass: %w", err)
	}
	scanner = lineio.NewScanner(input)

	var index int64
	for {
		line, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading input: %w", err)
		}

		key := deriveKey(lineio.StripTerminator(line), opts)
		value, ok, err := store.Get(key)
		if err != nil {
			return stats, storeError(err)
		}
		if !ok {
			// Pass 1 stored every key; a miss means the input changed
			// between passes.
			return stats, storeError(fmt.Errorf("key missing in second pass (input changed underneath the run?)"))
		}

		lastIndex := binary.LittleEndian.Uint64(value[:8])
		if lastIndex == uint64(index) {
			stats.LinesWritten++
			count := int64(binary.LittleEndian.Uint64(value[8:]))
			if err := writeKept(writer, opts, line, count); err != nil {
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
		index++
	}
	return stats, nil
}

// removeAllDisk runs remove-all with store-resident counts: pass 1
// counts occurrences, pass 2 rewinds and keeps count==1 lines.
func removeAllDisk(input io.ReadSeeker, writer *bufio.Writer, opts Options) (Stats, error) {
	var stats Stats
	store, err := opts.openStore()
	if err != nil {
		return stats, err
	}
	defer store.Close()

	scanner := lineio.NewScanner(input)
	for {
		line, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading input: %w", err)
		}
		stats.LinesRead++

		key := deriveKey(lineio.StripTerminator(line), opts)
		if _, err := bumpCount(store, key); err != nil {
			return stats, err
		}
	}

	err = store.ForEach(func(key, value []byte) error {
		if binary.LittleEndian.Uint64(value) == 1 {
			stats.UniqueLines++
		}
		return nil
	})
	if err != nil {
		return stats, storeError(err)
	}

	if _, err := input.Seek(0, io.SeekStart); err != nil {
		return stats, fmt.Errorf("rewinding input for second pass: %w", err)
	}
	scanner = lineio.NewScanner(input)

	for {
		line, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("reading input: %w", err)
		}

		key := deriveKey(lineio.StripTerminator(line), opts)
		value, ok, err := store.Get(key)
		if err != nil {
			return stats, storeError(err)
		}
		if !ok {
			return stats, storeError(fmt.Errorf("key missing in second pass (input changed underneath the run?)"))
		}

		if binary.LittleEndian.Uint64(value) == 1 {
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
