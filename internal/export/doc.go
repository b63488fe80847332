// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders a story transcript to shareable formats.
//
// # Key Types
//
//   - Exporter: the common interface; MarkdownExporter, JSONExporter,
//     and HTMLExporter implement it.
//   - Options: output directory, metadata and timestamp toggles, and an
//     optional title override. The default title is the first player
//     action.
//
// Markdown reads as prose: player actions as bold blockquotes, narration
// as plain paragraphs, the opening in italics. JSON is the complete
// transcript structure for re-import. HTML is a self-contained page with
// embedded styling.
//
// # Usage
//
//	path, err := export.ExportMarkdown(transcript, nil)
//
//	// Styled terminal preview without writing a file:
//	out, err := export.Preview(transcript, nil, width)
package export
