// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Story export for the fable CLI.
//
// Handles the "fable export" command, which renders an archived story
// to Markdown, JSON, or HTML. Without --story the most recently played
// archived story is exported.
//
// Examples:
//   fable export                          Export the latest story as Markdown
//   fable export --story 12               Export story 12
//   fable export --format html            Export as HTML
//   fable export --output ~/stories       Write into a directory
//   fable export --preview                Render to the terminal instead

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fableforge/fable-tui/internal/export"
	"github.com/fableforge/fable-tui/internal/storage"
	"github.com/fableforge/fable-tui/internal/util"
)

// HandleExport dispatches the export command.
func HandleExport(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	archive, err := OpenArchive(cfg)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	if archive == nil {
		return fmt.Errorf("archiving is disabled (set archive.enabled = true)")
	}
	defer archive.Close()

	parser := NewArgParser(args.Raw)

	record, err := resolveStory(archive, parser.Flag("story"))
	if err != nil {
		return err
	}

	transcript, err := archive.GetStory(record.ID)
	if err != nil {
		return err
	}

	opts := export.DefaultOptions()
	opts.OutputDir = parser.FlagOrDefault("output", ".")
	opts.IncludeTimestamps = parser.BoolFlag("timestamps")

	if parser.BoolFlag("preview") {
		rendered, err := export.Preview(transcript, opts, GetTerminalWidth())
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	}

	format := strings.ToLower(parser.FlagOrDefault("format", "md"))
	var exporter export.Exporter
	switch format {
	case "md", "markdown":
		exporter = export.NewMarkdownExporter(opts)
	case "json":
		exporter = export.NewJSONExporter(opts)
	case "html":
		exporter = export.NewHTMLExporter(opts)
	default:
		return fmt.Errorf("unknown format: %s (md, json, html)", format)
	}

	path, err := export.ExportToFile(transcript, exporter, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", SuccessStyle.Render("[Exported]"), path)
	return nil
}

// resolveStory finds the archived story to export. An empty selector
// picks the most recently played story. A numeric selector matches the
// server-assigned story id; anything else matches the archive id.
func resolveStory(archive *storage.Archive, selector string) (*storage.StoryRecord, error) {
	records, err := archive.ListStories()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("the archive is empty; play a story first")
	}

	if selector == "" {
		// ListStories returns newest first.
		return &records[0], nil
	}

	if serverID, err := strconv.ParseInt(selector, 10, 64); err == nil {
		for i := range records {
			if records[i].ServerID == serverID {
				return &records[i], nil
			}
		}
	}
	for i := range records {
		if records[i].ID == selector {
			return &records[i], nil
		}
	}

	return nil, fmt.Errorf("no archived story matches %q (see: fable status)", selector)
}

// listArchivePreviews returns one display line per archived story.
// Used by the status command.
func listArchivePreviews(archive *storage.Archive, limit int) []string {
	records, err := archive.ListStories()
	if err != nil {
		return nil
	}
	lines := make([]string, 0, limit)
	for _, r := range records {
		if len(lines) >= limit {
			break
		}
		preview := r.Preview
		if preview == "" {
			preview = "(no actions yet)"
		}
		lines = append(lines, fmt.Sprintf("story %d: %s", r.ServerID, util.TruncateRunes(preview, 50)))
	}
	return lines
}
