// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/fableforge/fable-tui/internal/model"
)

// =============================================================================
// TERMINAL PREVIEW
// =============================================================================

// Preview renders the Markdown export styled for the terminal, without
// writing a file. Used by the export command's --preview flag.
func Preview(t *model.Transcript, opts *Options, width int) (string, error) {
	content, err := NewMarkdownExporter(opts).Export(t)
	if err != nil {
		return "", err
	}

	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	out, err := renderer.Render(string(content))
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return out, nil
}
