// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package kvstore provides the ephemeral key-value store capability
// used by the disk-backed deduplication engines.
//
// The engines track per-key occurrence metadata (counts, last-seen
// line indices) encoded as fixed-width little-endian values. For
// inputs too large to hold that metadata in memory, the state lives in
// an on-disk store instead. [Store] is the capability interface; the
// engines never name a concrete implementation, so any persistent
// store can be substituted.
//
// Two implementations exist:
//
//   - [SQLite] -- a single-connection SQLite database in a fresh
//     temporary directory, torn down on Close. This is the production
//     implementation. Keys are addressed by their BLAKE3 digest so an
//     arbitrarily long line costs a fixed-size index entry.
//   - [Memory] -- a map-backed store for tests and as the reference
//     semantics for Len and ForEach.
//
// Stores are scoped to a single deduplication run. They are not safe
// for concurrent use and are never shared across processes.
package kvstore
