// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the fable application.
//
// This package contains common helper functions used throughout the
// application for string manipulation, timestamp handling, and file
// operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: terminal-column truncation (CJK aware)
//   - RuneLen: character count used for the input length limit
//
// Timestamps:
//   - ParseServerTime: parses the backend's ISO 8601 timestamps
//   - FormatRelative: short relative ages for list views
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long strings safely for display
//	display := util.TruncateRunes(longText, 50)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0644)
package util
