// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// dedup removes duplicate lines from a file or stream while
// preserving order.
//
// By default the first occurrence of each line is kept and later
// occurrences are dropped. --keep-last keeps the final occurrence
// instead; --remove-all drops every line that occurs more than once.
// Lines can be keyed case-insensitively (--ignore-case) or on a
// single whitespace-separated column (--column N).
//
// Input comes from a file argument or stdin; files ending in .gz or
// .zst are decompressed transparently. Output goes to stdout or, with
// --output, to a file written atomically via temp-file-and-rename.
// --use-disk keeps deduplication state in an ephemeral SQLite store
// instead of memory for inputs too large for RAM; combined with
// --keep-last or --remove-all it requires a plain (seekable,
// uncompressed) file input, because those policies read the input
// twice.
//
// Usage:
//
//	dedup [flags] [FILE]
//
// Examples:
//
//	dedup access.log
//	dedup --keep-last --count access.log
//	cat urls.txt | dedup --ignore-case -o unique-urls.txt
//	dedup --column 2 --show-removed events.tsv
//	dedup --use-disk --remove-all huge-dump.txt -o cleaned.txt
//
// A YAML defaults file (see lib/config) can supply baseline flag
// values via --config or the DEDUP_CONFIG environment variable;
// explicit flags always win.
package main
