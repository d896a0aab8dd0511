// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"testing"
)

// conformance exercises the Store contract against any implementation.
func conformance(t *testing.T, store Store) {
	t.Helper()

	if _, ok, err := store.Get([]byte("absent")); err != nil || ok {
		t.Fatalf("Get(absent) = ok=%v, err=%v; want ok=false, err=nil", ok, err)
	}

	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, 1)
	if err := store.Put([]byte("alpha"), value); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Overwrite must replace, not accumulate.
	binary.LittleEndian.PutUint64(value, 2)
	if err := store.Put([]byte("alpha"), value); err != nil {
		t.Fatalf("Put (overwrite): %v", err)
	}

	got, ok, err := store.Get([]byte("alpha"))
	if err != nil || !ok {
		t.Fatalf("Get(alpha) = ok=%v, err=%v", ok, err)
	}
	if binary.LittleEndian.Uint64(got) != 2 {
		t.Errorf("value = %d, want 2", binary.LittleEndian.Uint64(got))
	}

	if err := store.Put([]byte("beta"), value); err != nil {
		t.Fatalf("Put(beta): %v", err)
	}
	count, err := store.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if count != 2 {
		t.Errorf("Len = %d, want 2", count)
	}

	seen := 0
	err = store.ForEach(func(key, value []byte) error {
		seen++
		if len(value) != 8 {
			t.Errorf("ForEach value length = %d, want 8", len(value))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if seen != 2 {
		t.Errorf("ForEach visited %d entries, want 2", seen)
	}

	// fn errors stop iteration and propagate.
	wantErr := errors.New("stop")
	if err := store.ForEach(func(key, value []byte) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("ForEach error = %v, want %v", err, wantErr)
	}
}

func TestMemoryConformance(t *testing.T) {
	store := NewMemory()
	defer store.Close()
	conformance(t, store)
}

func TestSQLiteConformance(t *testing.T) {
	store, err := OpenSQLite(SQLiteConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()
	conformance(t, store)
}

func TestMemoryCopiesValues(t *testing.T) {
	store := NewMemory()
	defer store.Close()

	value := []byte{1, 2, 3}
	if err := store.Put([]byte("k"), value); err != nil {
		t.Fatalf("Put: %v", err)
	}
	value[0] = 9

	got, _, err := store.Get([]byte("k"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("stored value mutated through caller slice: %v", got)
	}
}

func TestSQLiteLongKeys(t *testing.T) {
	store, err := OpenSQLite(SQLiteConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer store.Close()

	// Keys far larger than the 32-byte address must round-trip
	// independently.
	long := bytes.Repeat([]byte("x"), 1<<20)
	longer := append(bytes.Repeat([]byte("x"), 1<<20), 'y')

	if err := store.Put(long, []byte{1}); err != nil {
		t.Fatalf("Put(long): %v", err)
	}
	if err := store.Put(longer, []byte{2}); err != nil {
		t.Fatalf("Put(longer): %v", err)
	}

	got, ok, err := store.Get(long)
	if err != nil || !ok || got[0] != 1 {
		t.Fatalf("Get(long) = %v, ok=%v, err=%v", got, ok, err)
	}
	got, ok, err = store.Get(longer)
	if err != nil || !ok || got[0] != 2 {
		t.Fatalf("Get(longer) = %v, ok=%v, err=%v", got, ok, err)
	}
}

func TestSQLiteCloseRemovesDirectory(t *testing.T) {
	parent := t.TempDir()
	store, err := OpenSQLite(SQLiteConfig{Dir: parent})
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := store.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entries, err := os.ReadDir(parent)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("store directory not removed, %d entries remain", len(entries))
	}
}
