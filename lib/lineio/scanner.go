// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lineio

import (
	"bufio"
	"io"
)

// Scanner reads a stream one line at a time. Unlike bufio.Scanner it
// never strips the line terminator and has no fixed token size limit,
// so arbitrarily long lines round-trip byte-for-byte.
type Scanner struct {
	reader *bufio.Reader
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{reader: bufio.NewReader(r)}
}

// Next returns the next line including its trailing terminator bytes.
// The returned slice is freshly allocated and owned by the caller. A
// final unterminated line is delivered as-is; the subsequent call
// returns io.EOF. Read errors other than EOF are returned verbatim.
func (s *Scanner) Next() ([]byte, error) {
	line, err := s.reader.ReadBytes('\n')
	if len(line) == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	// A partial final line arrives together with io.EOF. Deliver the
	// line now; bufio retains the error and reports it on the next
	// call.
	return line, nil
}

// StripTerminator returns line without its trailing "\n" or "\r\n".
// The result aliases the input. Lines without a terminator are
// returned unchanged.
func StripTerminator(line []byte) []byte {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
	}
	return line
}
