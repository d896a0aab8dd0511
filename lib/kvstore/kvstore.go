// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

// Store is an ephemeral byte-keyed store for fixed-width binary
// values. Implementations own whatever resources back the store and
// release them in Close; callers must Close on every exit path.
type Store interface {
	// Get returns the value stored under key, or ok=false if the key
	// has never been Put. The returned slice is owned by the caller.
	Get(key []byte) (value []byte, ok bool, err error)

	// Put stores value under key, replacing any previous value. The
	// store copies both slices; the caller may reuse them.
	Put(key, value []byte) error

	// Len returns the number of distinct keys in the store.
	Len() (int64, error)

	// ForEach calls fn once per stored entry. The key passed to fn may
	// be the implementation's internal address for the entry rather
	// than the original key bytes; callers that need the original key
	// must encode it into the value. Iteration stops at the first
	// error from fn, which is returned.
	ForEach(fn func(key, value []byte) error) error

	// Close releases all resources backing the store, including any
	// on-disk state. The store is unusable afterwards.
	Close() error
}
