// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fableforge/fable-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - Key hints and transient status text
// =============================================================================

// Shortcut is a key binding hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom bar showing shortcut hints and transient status.
type StatusBar struct {
	Width     int
	Shortcuts []Shortcut
	Status    string
	IsError   bool
	theme     *styles.Theme
}

// NewStatusBar creates a status bar with the default shortcuts.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		Shortcuts: []Shortcut{
			{Key: "enter", Desc: "act"},
			{Key: "esc", Desc: "cancel"},
			{Key: "ctrl+s", Desc: "stories"},
			{Key: "ctrl+e", Desc: "export"},
			{Key: "end", Desc: "latest"},
			{Key: "ctrl+c", Desc: "quit"},
		},
		theme: theme,
	}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetShortcuts replaces the shortcut hints.
func (s *StatusBar) SetShortcuts(shortcuts []Shortcut) {
	s.Shortcuts = shortcuts
}

// SetStatus sets transient status text, replacing the shortcut hints until
// cleared.
func (s *StatusBar) SetStatus(status string, isError bool) {
	s.Status = status
	s.IsError = isError
}

// ClearStatus clears the transient status text.
func (s *StatusBar) ClearStatus() {
	s.Status = ""
	s.IsError = false
}

// View renders the status bar.
func (s *StatusBar) View() string {
	bar := s.theme.StatusBar.Width(s.Width)

	if s.Status != "" {
		statusStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		if s.IsError {
			statusStyle = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
		}
		return bar.Render(statusStyle.Render(s.Status))
	}

	var parts []string
	for _, sc := range s.Shortcuts {
		parts = append(parts,
			s.theme.StatusKey.Render(sc.Key)+" "+s.theme.StatusDesc.Render(sc.Desc))
	}

	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render("  ")
	hints := strings.Join(parts, sep)

	// Narrow terminals get fewer hints rather than a wrapped bar.
	if lipgloss.Width(hints) > s.Width-2 && len(s.Shortcuts) > 2 {
		parts = parts[:2]
		hints = strings.Join(parts, sep)
	}

	return bar.Render(hints)
}
