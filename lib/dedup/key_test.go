// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"bytes"
	"testing"
)

func TestDeriveKeyWholeLine(t *testing.T) {
	key := deriveKey([]byte("hello world"), Options{})
	if string(key) != "hello world" {
		t.Errorf("key = %q, want content verbatim", key)
	}
}

func TestDeriveKeyColumn(t *testing.T) {
	cases := []struct {
		name    string
		content string
		column  int
		want    string
	}{
		{"first column", "1\tapple", 1, "1"},
		{"second column", "1\tapple", 2, "apple"},
		{"runs of whitespace", "  a   b\t\tc  ", 3, "c"},
		{"out of range falls back", "1\tapple", 5, "1\tapple"},
		{"zero means whole line", "1\tapple", 0, "1\tapple"},
		{"negative means whole line", "1\tapple", -2, "1\tapple"},
		{"blank line falls back", "", 1, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			key := deriveKey([]byte(c.content), Options{Column: c.column})
			if string(key) != c.want {
				t.Errorf("deriveKey(%q, column=%d) = %q, want %q", c.content, c.column, key, c.want)
			}
		})
	}
}

func TestDeriveKeyIgnoreCase(t *testing.T) {
	key := deriveKey([]byte("HeLLo"), Options{IgnoreCase: true})
	if string(key) != "hello" {
		t.Errorf("key = %q, want %q", key, "hello")
	}

	// Unicode lowercase mapping, not just ASCII.
	key = deriveKey([]byte("ÄPFEL"), Options{IgnoreCase: true})
	if string(key) != "äpfel" {
		t.Errorf("key = %q, want %q", key, "äpfel")
	}
}

func TestDeriveKeyIgnoreCaseInvalidUTF8(t *testing.T) {
	// Invalid UTF-8 is a legitimate key space: the bytes pass through
	// untouched instead of erroring or being replaced.
	raw := []byte{0xFF, 0xFE, 'A'}
	key := deriveKey(raw, Options{IgnoreCase: true})
	if !bytes.Equal(key, raw) {
		t.Errorf("key = %v, want raw bytes %v", key, raw)
	}
}

func TestDeriveKeyColumnThenCase(t *testing.T) {
	// Case folding applies to the column-reduced key, not the line.
	key := deriveKey([]byte("ID\tVALUE"), Options{Column: 2, IgnoreCase: true})
	if string(key) != "value" {
		t.Errorf("key = %q, want %q", key, "value")
	}
}
