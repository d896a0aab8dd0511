// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML defaults loading for the dedup CLI.
//
// A defaults file supplies baseline values for the deduplication
// flags (mode, ignore_case, count, show_removed, column, use_disk,
// store_dir). It is loaded only from an explicit location: the
// --config flag (via [LoadFile]) or the DEDUP_CONFIG environment
// variable (via [Load]). There is no ~/.config discovery and no
// automatic file search; configuration stays deterministic and
// auditable.
//
// Flags given on the command line always win over file values. The
// file only fills in flags the user did not set.
//
// Unknown keys in the file are rejected rather than ignored, so a
// typo ("ignore-case" instead of "ignore_case") fails loudly instead
// of silently doing nothing.
package config
