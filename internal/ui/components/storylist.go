// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fableforge/fable-tui/internal/ui/styles"
	"github.com/fableforge/fable-tui/internal/util"
)

// =============================================================================
// STORY LIST COMPONENT - Saved story picker
// =============================================================================

// StoryItem is one saved story in the picker.
type StoryItem struct {
	ID           int64
	Preview      string
	MessageCount int
	UpdatedAt    time.Time
}

// StoryList is the saved story picker overlay.
type StoryList struct {
	Items    []StoryItem
	cursor   int
	width    int
	height   int
	theme    *styles.Theme
}

// NewStoryList creates an empty story picker.
func NewStoryList(theme *styles.Theme) *StoryList {
	return &StoryList{
		width:  80,
		height: 20,
		theme:  theme,
	}
}

// SetSize updates the picker dimensions.
func (sl *StoryList) SetSize(width, height int) {
	sl.width = width
	sl.height = height
}

// SetItems replaces the list contents, clamping the cursor.
func (sl *StoryList) SetItems(items []StoryItem) {
	sl.Items = items
	if sl.cursor >= len(items) {
		sl.cursor = len(items) - 1
	}
	if sl.cursor < 0 {
		sl.cursor = 0
	}
}

// Selected returns the story under the cursor, or nil when empty.
func (sl *StoryList) Selected() *StoryItem {
	if len(sl.Items) == 0 || sl.cursor >= len(sl.Items) {
		return nil
	}
	return &sl.Items[sl.cursor]
}

// Update handles cursor movement.
func (sl *StoryList) Update(msg tea.Msg) (*StoryList, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if sl.cursor > 0 {
				sl.cursor--
			}
		case "down", "j":
			if sl.cursor < len(sl.Items)-1 {
				sl.cursor++
			}
		case "home":
			sl.cursor = 0
		case "end":
			sl.cursor = len(sl.Items) - 1
			if sl.cursor < 0 {
				sl.cursor = 0
			}
		}
	}
	return sl, nil
}

// View renders the picker.
func (sl *StoryList) View() string {
	title := sl.theme.ListTitle.Render("Saved stories")

	if len(sl.Items) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Padding(1, 2)
		return lipgloss.JoinVertical(lipgloss.Left,
			title,
			emptyStyle.Render("No saved stories yet."),
		)
	}

	now := time.Now()
	maxRows := sl.height - 3
	if maxRows < 1 {
		maxRows = 1
	}

	// Keep the cursor visible when the list is longer than the pane.
	start := 0
	if sl.cursor >= maxRows {
		start = sl.cursor - maxRows + 1
	}
	end := minInt(start+maxRows, len(sl.Items))

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, sl.renderRow(i, now))
	}

	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	hint := hintStyle.Render("enter resume  d delete  esc back")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		hint,
	)
}

func (sl *StoryList) renderRow(i int, now time.Time) string {
	item := sl.Items[i]

	preview := item.Preview
	if preview == "" {
		preview = "(an untold story)"
	}

	meta := util.FormatRelative(item.UpdatedAt, now) + " - " +
		strconv.Itoa(item.MessageCount) + " turns"

	previewWidth := sl.width - len(meta) - 10
	if previewWidth < 16 {
		previewWidth = 16
	}
	preview = util.TruncateWidth(preview, previewWidth)

	line := preview + "  " + sl.theme.ListTimestamp.Render(meta)

	if i == sl.cursor {
		return sl.theme.ListItemSelected.Width(sl.width - 4).Render("> " + line)
	}
	return sl.theme.ListItem.Width(sl.width - 4).Render("  " + line)
}
