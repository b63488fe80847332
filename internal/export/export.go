// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders a story transcript to shareable formats.
package export

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fableforge/fable-tui/internal/model"
	"github.com/fableforge/fable-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders a transcript to one output format.
type Exporter interface {
	// Export renders the transcript and returns the file content.
	Export(t *model.Transcript) ([]byte, error)

	// FileExtension returns the output extension (e.g. ".md").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written. Default: current directory.
	OutputDir string

	// IncludeMetadata adds a header with dates and turn count.
	IncludeMetadata bool

	// IncludeTimestamps adds per-message timestamps.
	IncludeTimestamps bool

	// Title overrides the derived story title.
	Title string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeTimestamps: false,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders the transcript and writes it next to a timestamped
// filename. Returns the output path.
func ExportToFile(t *model.Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("story_%s_%s%s",
		sanitizeFilename(storyTitle(t, opts)),
		timestamp,
		exporter.FileExtension(),
	)

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFileWithDir(outputPath, content, 0644, 0755); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// ExportMarkdown renders and writes the transcript as Markdown.
func ExportMarkdown(t *model.Transcript, opts *Options) (string, error) {
	return ExportToFile(t, NewMarkdownExporter(opts), opts)
}

// ExportJSON renders and writes the transcript as JSON.
func ExportJSON(t *model.Transcript, opts *Options) (string, error) {
	return ExportToFile(t, NewJSONExporter(opts), opts)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// storyTitle derives a title: the explicit option, the first player
// action, or a fallback.
func storyTitle(t *model.Transcript, opts *Options) string {
	if opts != nil && opts.Title != "" {
		return opts.Title
	}
	if t != nil {
		if first := firstPlayerAction(t); first != "" {
			return first
		}
	}
	return "story"
}

func firstPlayerAction(t *model.Transcript) string {
	for _, msg := range t.Messages {
		if msg.Role == model.RolePlayer {
			return msg.Text
		}
	}
	return ""
}

// sanitizeFilename replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	maxLen := 50
	runes := []rune(s)
	if len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
		'\r': '_',
	}

	result := []rune{}
	for _, r := range s {
		if replacement, found := replacer[r]; found {
			result = append(result, replacement)
		} else if r < 32 || r == 127 {
			result = append(result, '-')
		} else {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "story"
	}
	return string(result)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04")
}
