// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/dedup/lib/kvstore"
)

// Mode selects which occurrence of a duplicate key survives.
type Mode int

const (
	// KeepFirst keeps the first occurrence of each key. The only
	// policy with streaming output (unless counting is requested).
	KeepFirst Mode = iota

	// KeepLast keeps the last occurrence of each key, at its original
	// position in the stream. Requires two passes over the input.
	KeepLast

	// RemoveAll drops every line whose key occurs more than once.
	// Requires two passes over the input.
	RemoveAll
)

// String returns the flag-style name of the mode.
func (m Mode) String() string {
	switch m {
	case KeepFirst:
		return "keep-first"
	case KeepLast:
		return "keep-last"
	case RemoveAll:
		return "remove-all"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a flag-style mode name ("keep-first", "keep-last",
// "remove-all").
func ParseMode(name string) (Mode, error) {
	switch name {
	case "keep-first":
		return KeepFirst, nil
	case "keep-last":
		return KeepLast, nil
	case "remove-all":
		return RemoveAll, nil
	default:
		return 0, fmt.Errorf("%w: unknown deduplication mode %q", ErrInvalidArgument, name)
	}
}

// ErrInvalidArgument marks configuration or input-capability errors:
// an unknown mode value, a disk-backed two-pass policy on a
// non-seekable input, or a key-value store failure (store failures are
// non-recoverable within a run and are not given their own category).
// Test with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// removedMarker prefixes removed lines when Options.ShowRemoved is
// set. The trailing space is part of the marker.
const removedMarker = "[REMOVED] "

// Options configures one deduplication run. The zero value keeps the
// first occurrence of every distinct full line, in memory. Options is
// read-only for the duration of the run.
type Options struct {
	// Mode is the deduplication policy.
	Mode Mode

	// IgnoreCase lowercases valid-UTF-8 key bytes before comparison.
	// Lines that do not decode as UTF-8 are compared raw; invalid
	// encoding is a legitimate key space, never an error.
	IgnoreCase bool

	// Count prefixes each kept line with its total occurrence count,
	// formatted as a 7-character right-justified decimal field and a
	// space. Forces keep-first to defer output to end of stream,
	// since the final tally is unknown until then.
	Count bool

	// ShowRemoved emits removed lines prefixed with "[REMOVED] "
	// instead of dropping them silently.
	ShowRemoved bool

	// Column keys each line on its Nth whitespace-separated field
	// (1-based) instead of the whole line. Lines with fewer fields
	// fall back to the full stripped content. Zero or negative means
	// whole-line keying.
	Column int

	// UseDisk stores per-key metadata in an ephemeral key-value
	// store instead of in-memory maps. KeepLast and RemoveAll then
	// require a seekable input; see DeduplicateSeekable.
	UseDisk bool

	// Logger receives debug-level run events (store lifecycle, run
	// summaries). If nil, a no-op logger is used.
	Logger *slog.Logger

	// OpenStore supplies the key-value store for disk-backed runs.
	// If nil, a fresh SQLite store under the system temp directory is
	// used. The engine closes the store on every exit path.
	OpenStore func() (kvstore.Store, error)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openStore opens the injected or default store, mapping failures
// into the invalid-argument kind.
func (o Options) openStore() (kvstore.Store, error) {
	open := o.OpenStore
	if open == nil {
		open = func() (kvstore.Store, error) {
			return kvstore.OpenSQLite(kvstore.SQLiteConfig{Logger: o.logger()})
		}
	}
	store, err := open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening key-value store: %v", ErrInvalidArgument, err)
	}
	return store, nil
}

// Stats reports what one deduplication run did. Counters are scoped
// to a single invocation and never merged across runs.
type Stats struct {
	// LinesRead is the number of lines in the input.
	LinesRead int64

	// LinesWritten is the number of kept lines.
	LinesWritten int64

	// LinesRemoved is the number of dropped lines. LinesWritten +
	// LinesRemoved == LinesRead on success.
	LinesRemoved int64

	// UniqueLines is policy-dependent: for KeepFirst and KeepLast,
	// the number of distinct keys; for RemoveAll, the number of keys
	// occurring exactly once.
	UniqueLines int64
}
