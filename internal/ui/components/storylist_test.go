// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func sampleItems() []StoryItem {
	now := time.Now()
	return []StoryItem{
		{ID: 1, Preview: "You awaken at the edge of a forest.", MessageCount: 4, UpdatedAt: now},
		{ID: 2, Preview: "The lighthouse door stands open.", MessageCount: 12, UpdatedAt: now.Add(-time.Hour)},
		{ID: 3, Preview: "Snow falls on the empty station.", MessageCount: 2, UpdatedAt: now.Add(-48 * time.Hour)},
	}
}

func TestStoryListCursorMovement(t *testing.T) {
	sl := NewStoryList(testTheme())
	sl.SetItems(sampleItems())

	if sl.Selected().ID != 1 {
		t.Fatalf("initial selection ID = %d, want 1", sl.Selected().ID)
	}

	sl, _ = sl.Update(tea.KeyMsg{Type: tea.KeyDown})
	if sl.Selected().ID != 2 {
		t.Errorf("after down, ID = %d, want 2", sl.Selected().ID)
	}

	sl, _ = sl.Update(tea.KeyMsg{Type: tea.KeyUp})
	sl, _ = sl.Update(tea.KeyMsg{Type: tea.KeyUp})
	if sl.Selected().ID != 1 {
		t.Errorf("cursor should clamp at the top, ID = %d", sl.Selected().ID)
	}
}

func TestStoryListEmptySelection(t *testing.T) {
	sl := NewStoryList(testTheme())
	if sl.Selected() != nil {
		t.Error("empty list should have no selection")
	}
	if !strings.Contains(sl.View(), "No saved stories") {
		t.Error("empty list should render the empty state")
	}
}

func TestStoryListClampsCursorOnShrink(t *testing.T) {
	sl := NewStoryList(testTheme())
	sl.SetItems(sampleItems())
	sl, _ = sl.Update(tea.KeyMsg{Type: tea.KeyEnd})

	sl.SetItems(sampleItems()[:1])
	if sl.Selected() == nil || sl.Selected().ID != 1 {
		t.Error("cursor should clamp when the list shrinks")
	}
}

func TestStatusBarTransientStatus(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.SetWidth(80)

	if !strings.Contains(sb.View(), "enter") {
		t.Error("default view should show shortcut hints")
	}

	sb.SetStatus("story saved", false)
	if !strings.Contains(sb.View(), "story saved") {
		t.Error("status text should replace the hints")
	}

	sb.ClearStatus()
	if strings.Contains(sb.View(), "story saved") {
		t.Error("cleared status should restore the hints")
	}
}

func TestHeaderConnBadge(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(80)
	h.SetConnState(ConnConnected)

	if !strings.Contains(h.View(), "CONNECTED") {
		t.Error("header should show the connection state")
	}

	h.SetConnState(ConnOffline)
	if !strings.Contains(h.View(), "OFFLINE") {
		t.Error("header should show the offline state")
	}
}
