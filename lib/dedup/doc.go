// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dedup removes duplicate lines from a byte stream while
// preserving output order.
//
// Three policies decide which occurrence of a duplicate key survives:
//
//   - [KeepFirst] -- keep the first occurrence (one pass, streaming)
//   - [KeepLast] -- keep the last occurrence (two passes)
//   - [RemoveAll] -- drop every line whose key occurs more than once
//     (two passes)
//
// A line's key is its terminator-stripped content, optionally reduced
// to a single whitespace-separated column and optionally lowercased
// (see [Options]). Keys are compared for equality only and are never
// emitted.
//
// Each policy runs on one of two engines. The in-memory engine keeps
// per-key metadata in maps and, for the two-pass policies, buffers
// every input line. The disk-backed engine ([Options].UseDisk) keeps
// the metadata in an ephemeral [kvstore.Store] instead, bounding peak
// memory for inputs larger than RAM; its two-pass policies re-read the
// input from the start rather than buffering it, so they require a
// seekable source.
//
// [Deduplicate] accepts any reader and rejects the disk-backed
// two-pass combinations. [DeduplicateSeekable] accepts an
// io.ReadSeeker and supports every combination. Both return [Stats];
// on success LinesWritten + LinesRemoved == LinesRead always holds.
//
// Output contract: a kept line is written as its stripped content
// followed by exactly one '\n' (the source terminator, '\n' or
// "\r\n", is normalized away), prefixed with a 7-character
// right-justified occurrence count and a space when [Options].Count is
// set. A removed line is dropped silently unless
// [Options].ShowRemoved is set, in which case it is written prefixed
// with "[REMOVED] " and with its original bytes and terminator intact.
package dedup
