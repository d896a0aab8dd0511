// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lineio splits a byte stream into discrete lines while
// preserving the raw bytes of each line, including its terminator.
//
// The deduplication engines need two views of every line: the exact
// bytes as read (for reproducing removed lines verbatim) and the
// terminator-stripped content (for key derivation and normalized
// output). [Scanner] delivers the first; [StripTerminator] produces
// the second without copying.
//
// Lines are delimited by '\n'. A '\r' immediately before the '\n' is
// treated as part of the terminator. The final line of a stream may
// carry no terminator at all; it is still delivered as a line.
//
// This package has no dependencies beyond the standard library: it is
// a thin wrapper over bufio whose only job is the terminator contract
// above, which no streaming library expresses directly.
package lineio
