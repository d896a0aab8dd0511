// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package kvstore

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// SQLiteConfig holds the parameters for opening an ephemeral SQLite
// store. The zero value is usable.
type SQLiteConfig struct {
	// Dir is the parent directory for the store's temporary
	// directory. Empty means the system default (os.TempDir).
	Dir string

	// Logger receives operational messages (store open/close). If
	// nil, a no-op logger is used.
	Logger *slog.Logger
}

// SQLite is a Store backed by a single-connection SQLite database in
// a private temporary directory. The database exists only for the
// lifetime of one deduplication run; Close removes the directory.
//
// Keys are addressed by their 32-byte BLAKE3 digest rather than their
// raw bytes, so a multi-megabyte input line costs a fixed-size index
// entry. The digest is the same construction used for chunk
// deduplication in the artifact store.
type SQLite struct {
	conn   *sqlite.Conn
	dir    string
	logger *slog.Logger
}

const sqliteSchema = `
CREATE TABLE kv (
    key   BLOB PRIMARY KEY,
    value BLOB NOT NULL
) WITHOUT ROWID;
`

// OpenSQLite creates a fresh store in a new temporary directory. The
// caller must Close the store on every exit path; nothing survives
// the process otherwise anyway, but Close reclaims the disk space
// immediately.
func OpenSQLite(cfg SQLiteConfig) (*SQLite, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	dir, err := os.MkdirTemp(cfg.Dir, "dedup-store-*")
	if err != nil {
		return nil, fmt.Errorf("kvstore: creating store directory: %w", err)
	}

	path := filepath.Join(dir, "keys.db")
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("kvstore: opening %s: %w", path, err)
	}

	// Scratch-database pragmas: the store is rebuilt from the input
	// on every run, so durability buys nothing. Journal and fsync are
	// disabled; a crash mid-run loses only work that would be redone.
	pragmas := []string{
		"PRAGMA journal_mode=OFF",
		"PRAGMA synchronous=OFF",
		"PRAGMA cache_size=-8192",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			_ = conn.Close()
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("kvstore: %s: %w", pragma, err)
		}
	}

	if err := sqlitex.ExecuteScript(conn, sqliteSchema, nil); err != nil {
		_ = conn.Close()
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("kvstore: creating schema: %w", err)
	}

	logger.Debug("ephemeral store opened", "path", path)
	return &SQLite{conn: conn, dir: dir, logger: logger}, nil
}

// address returns the fixed-size database key for a raw key.
func address(key []byte) [32]byte {
	return blake3.Sum256(key)
}

func (s *SQLite) Get(key []byte) ([]byte, bool, error) {
	addr := address(key)
	var value []byte
	found := false
	execErr := sqlitex.Execute(s.conn,
		"SELECT value FROM kv WHERE key = ?",
		&sqlitex.ExecOptions{
			Args: []any{addr[:]},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value = make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, value)
				found = true
				return nil
			},
		})
	if execErr != nil {
		return nil, false, fmt.Errorf("kvstore: get: %w", execErr)
	}
	return value, found, nil
}

func (s *SQLite) Put(key, value []byte) error {
	addr := address(key)
	err := sqlitex.Execute(s.conn,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value",
		&sqlitex.ExecOptions{
			Args: []any{addr[:], value},
		})
	if err != nil {
		return fmt.Errorf("kvstore: put: %w", err)
	}
	return nil
}

func (s *SQLite) Len() (int64, error) {
	var count int64
	err := sqlitex.Execute(s.conn,
		"SELECT COUNT(*) FROM kv",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = stmt.ColumnInt64(0)
				return nil
			},
		})
	if err != nil {
		return 0, fmt.Errorf("kvstore: len: %w", err)
	}
	return count, nil
}

// ForEach iterates entries in key-address order. The key passed to fn
// is the BLAKE3 address, not the original key bytes.
func (s *SQLite) ForEach(fn func(key, value []byte) error) error {
	err := sqlitex.Execute(s.conn,
		"SELECT key, value FROM kv ORDER BY key",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				key := make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, key)
				value := make([]byte, stmt.ColumnLen(1))
				stmt.ColumnBytes(1, value)
				return fn(key, value)
			},
		})
	if err != nil {
		return fmt.Errorf("kvstore: foreach: %w", err)
	}
	return nil
}

// Close closes the connection and removes the store directory.
func (s *SQLite) Close() error {
	closeErr := s.conn.Close()
	removeErr := os.RemoveAll(s.dir)
	if closeErr != nil {
		return fmt.Errorf("kvstore: closing connection: %w", closeErr)
	}
	if removeErr != nil {
		return fmt.Errorf("kvstore: removing %s: %w", s.dir, removeErr)
	}
	s.logger.Debug("ephemeral store removed", "dir", s.dir)
	return nil
}
