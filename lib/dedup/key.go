// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dedup

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// deriveKey turns terminator-stripped line content into the key the
// active policy compares on. It cannot fail: column extraction falls
// back to the whole content when the requested field does not exist,
// and case folding falls back to the raw bytes when the content is
// not valid UTF-8.
//
// The result may alias content; callers that retain the key must copy
// it (stringifying for a map key does this implicitly).
func deriveKey(content []byte, opts Options) []byte {
	key := content
	if opts.Column > 0 {
		fields := bytes.Fields(content)
		if opts.Column <= len(fields) {
			key = fields[opts.Column-1]
		}
	}
	if opts.IgnoreCase && utf8.Valid(key) {
		return []byte(strings.ToLower(string(key)))
	}
	return key
}
