// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fableforge/fable-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - Title bar with story and connection state
// =============================================================================

// ConnState is the story server connection state shown in the header.
type ConnState int

const (
	ConnUnknown ConnState = iota
	ConnConnected
	ConnOffline
)

// String returns the display string for the connection state.
func (c ConnState) String() string {
	switch c {
	case ConnConnected:
		return "CONNECTED"
	case ConnOffline:
		return "OFFLINE"
	default:
		return "..."
	}
}

// Header is the title bar showing the app name, the current story, and the
// server connection state.
type Header struct {
	Title      string
	StoryTitle string
	Conn       ConnState
	Streaming  bool
	Width      int
	theme      *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "fable",
		Conn:  ConnUnknown,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetStoryTitle updates the current story title shown in the header.
func (h *Header) SetStoryTitle(title string) {
	h.StoryTitle = title
}

// SetConnState updates the connection state badge.
func (h *Header) SetConnState(state ConnState) {
	h.Conn = state
}

// SetStreaming marks a narration in flight.
func (h *Header) SetStreaming(streaming bool) {
	h.Streaming = streaming
}

// View renders the header bar.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		return h.ViewCompact()
	}

	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Purple)

	accentStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan)

	brand := accentStyle.Render("~ ") +
		brandStyle.Render(h.Title) +
		accentStyle.Render(" ~")

	parts := []string{}
	if h.StoryTitle != "" {
		storyStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		parts = append(parts, storyStyle.Render(h.StoryTitle))
	}
	parts = append(parts, h.connBadge())
	if h.Streaming {
		streamStyle := lipgloss.NewStyle().
			Foreground(styles.Purple).
			Italic(true)
		parts = append(parts, streamStyle.Render("narrating..."))
	}
	subtitle := strings.Join(parts, " ")

	innerWidth := width - 6
	brandLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Render(brand)

	subtitleLine := lipgloss.NewStyle().
		Width(innerWidth).
		Align(lipgloss.Center).
		Foreground(styles.TextMuted).
		Render(subtitle)

	content := lipgloss.JoinVertical(lipgloss.Center, brandLine, subtitleLine)

	headerBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Background(styles.SurfaceDim).
		Padding(0, 2).
		Width(width)

	return headerBox.Render(content)
}

// ViewCompact renders a single-line header for narrow terminals.
func (h *Header) ViewCompact() string {
	brandStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Purple)

	parts := []string{brandStyle.Render(h.Title)}

	if h.StoryTitle != "" {
		storyStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		parts = append(parts, storyStyle.Render(h.StoryTitle))
	}
	parts = append(parts, h.connBadge())

	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	return strings.Join(parts, separator)
}

// connBadge renders the color-coded connection state.
func (h *Header) connBadge() string {
	var style lipgloss.Style
	switch h.Conn {
	case ConnConnected:
		style = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	case ConnOffline:
		style = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	default:
		style = lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
	return style.Render("[" + h.Conn.String() + "]")
}
