// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

// Memory is a map-backed Store. It exists for tests and as the
// reference semantics for the interface; production disk-backed runs
// use [SQLite].
type Memory struct {
	entries map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(key []byte) ([]byte, bool, error) {
	value, ok := m.entries[string(key)]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *Memory) Put(key, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.entries[string(key)] = stored
	return nil
}

func (m *Memory) Len() (int64, error) {
	return int64(len(m.entries)), nil
}

func (m *Memory) ForEach(fn func(key, value []byte) error) error {
	for key, value := range m.entries {
		if err := fn([]byte(key), value); err != nil {
			return err
		}
	}
	return nil
}

// Close discards all entries.
func (m *Memory) Close() error {
	m.entries = nil
	return nil
}
