// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package story

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	switch m.view {
	case ViewWelcome:
		return m.viewWelcome()
	case ViewStories:
		return m.viewStories()
	default:
		return m.viewStory()
	}
}

func (m Model) viewWelcome() string {
	var b strings.Builder
	b.WriteString(m.welcome.View())
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m Model) viewStories() string {
	var b strings.Builder
	b.WriteString(m.header.View())
	b.WriteByte('\n')
	b.WriteString(m.storyList.View())
	b.WriteByte('\n')
	b.WriteString(m.statusBar.View())
	return b.String()
}

func (m Model) viewStory() string {
	var b strings.Builder

	b.WriteString(m.header.View())
	b.WriteByte('\n')

	if m.errBanner.Visible() {
		b.WriteString(m.errBanner.View())
		b.WriteByte('\n')
	}

	b.WriteString(m.viewport.View())
	b.WriteByte('\n')

	if m.inFlight && m.spinner.IsActive() {
		b.WriteString(m.spinner.View())
		b.WriteByte('\n')
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(m.statusBar.View())

	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}
