// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/dedup/lib/dedup"
)

// Defaults holds baseline values for the dedup CLI flags. Fields use
// the same spelling as the flags, with dashes as underscores.
type Defaults struct {
	// Mode is the deduplication policy: "keep-first", "keep-last",
	// or "remove-all". Empty means keep-first.
	Mode string `yaml:"mode"`

	// IgnoreCase corresponds to --ignore-case.
	IgnoreCase bool `yaml:"ignore_case"`

	// Count corresponds to --count.
	Count bool `yaml:"count"`

	// ShowRemoved corresponds to --show-removed.
	ShowRemoved bool `yaml:"show_removed"`

	// Column corresponds to --column. Zero means whole-line keying.
	Column int `yaml:"column"`

	// UseDisk corresponds to --use-disk.
	UseDisk bool `yaml:"use_disk"`

	// StoreDir is the parent directory for the ephemeral key-value
	// store used by disk-backed runs. Empty means the system temp
	// directory. Point this at a filesystem with room for the
	// working set when deduplicating very large inputs.
	StoreDir string `yaml:"store_dir"`
}

// Load reads defaults from the file named by DEDUP_CONFIG. Returns
// nil (and no error) when the variable is unset: an absent defaults
// file is not a failure, it just means flag defaults apply.
func Load() (*Defaults, error) {
	path := os.Getenv("DEDUP_CONFIG")
	if path == "" {
		return nil, nil
	}
	return LoadFile(path)
}

// LoadFile reads defaults from an explicit path. The file must exist
// and every key in it must be known.
func LoadFile(path string) (*Defaults, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var defaults Defaults
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&defaults); err != nil && !errors.Is(err, io.EOF) {
		// An empty file decodes to io.EOF; that is a valid (if
		// pointless) defaults file.
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if defaults.Mode != "" {
		if _, err := dedup.ParseMode(defaults.Mode); err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
	}
	if defaults.Column < 0 {
		return nil, fmt.Errorf("in %s: column must not be negative (got %d)", path, defaults.Column)
	}
	return &defaults, nil
}
