// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fableforge/fable-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// Welcome is the screen shown before the first story begins or when the
// story list is empty.
type Welcome struct {
	version string
	width   int
	height  int
	theme   *styles.Theme
}

// NewWelcome creates the welcome screen.
func NewWelcome(version string, theme *styles.Theme) *Welcome {
	return &Welcome{
		version: version,
		width:   80,
		height:  24,
		theme:   theme,
	}
}

// SetSize updates the screen dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome screen centered in the available area.
func (w *Welcome) View() string {
	title := w.theme.WelcomeTitle.Render("fable")

	versionStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	version := versionStyle.Render(w.version)

	taglineStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Italic(true)
	tagline := taglineStyle.Render("An interactive story, one action at a time.")

	hints := lipgloss.JoinVertical(lipgloss.Left,
		w.hint("enter", "begin your story"),
		w.hint("ctrl+s", "browse saved stories"),
		w.hint("ctrl+c", "quit"),
	)

	content := lipgloss.JoinVertical(lipgloss.Center,
		title+" "+version,
		"",
		tagline,
		"",
		hints,
	)

	box := w.theme.WelcomeBox.Render(content)

	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, box)
}

func (w *Welcome) hint(key, desc string) string {
	return w.theme.StatusKey.Render(key) + "  " + w.theme.WelcomeHint.Render(desc)
}
