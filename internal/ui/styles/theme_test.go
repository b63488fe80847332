// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

// =============================================================================
// THEME CONSTRUCTION TESTS
// =============================================================================

func TestNewThemeDefaults(t *testing.T) {
	theme := NewTheme("auto")
	if theme == nil {
		t.Fatal("NewTheme should not return nil")
	}
	if theme.Width != 80 || theme.Height != 24 {
		t.Errorf("default size = %dx%d, want 80x24", theme.Width, theme.Height)
	}
}

func TestNewThemePreference(t *testing.T) {
	dark := NewTheme("dark")
	if !dark.HasDarkBg {
		t.Error("dark preference should force dark background")
	}

	light := NewTheme("light")
	if light.HasDarkBg {
		t.Error("light preference should force light background")
	}
}

// =============================================================================
// RESIZE TESTS
// =============================================================================

func TestSetSize(t *testing.T) {
	theme := NewTheme("dark")
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", theme.Width, theme.Height)
	}
}

func TestSetSizeClampsMinimums(t *testing.T) {
	theme := NewTheme("dark")
	theme.SetSize(3, 1)
	if theme.Width < 20 {
		t.Errorf("width %d should be clamped to at least 20", theme.Width)
	}
	if theme.Height < 5 {
		t.Errorf("height %d should be clamped to at least 5", theme.Height)
	}
}

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{20, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme("dark")
	for _, tc := range tests {
		theme.SetSize(tc.width, 24)
		if got := theme.GetLayoutMode(); got != tc.want {
			t.Errorf("GetLayoutMode() at width %d = %v, want %v", tc.width, got, tc.want)
		}
	}
}

func TestBubbleWidthPerLayout(t *testing.T) {
	theme := NewTheme("dark")

	theme.SetSize(40, 24)
	if got := theme.bubbleWidth(); got != 38 {
		t.Errorf("narrow bubble width = %d, want 38", got)
	}

	theme.SetSize(80, 24)
	if got := theme.bubbleWidth(); got != 72 {
		t.Errorf("medium bubble width = %d, want 72", got)
	}

	theme.SetSize(200, 50)
	if got := theme.bubbleWidth(); got != 96 {
		t.Errorf("wide bubble width should cap at 96, got %d", got)
	}
}

// =============================================================================
// STYLE CATALOG TESTS
// =============================================================================

func TestMessageStylesRender(t *testing.T) {
	theme := NewTheme("dark")

	player := theme.PlayerBubble.Render("open the door")
	if player == "" {
		t.Error("player bubble should render text")
	}

	narrator := theme.NarratorBubble.Render("The door creaks open.")
	if narrator == "" {
		t.Error("narrator bubble should render text")
	}

	intro := theme.IntroBubble.Render("You awaken at the edge of a forest.")
	if intro == "" {
		t.Error("intro bubble should render text")
	}
}

func TestInputStylesRender(t *testing.T) {
	theme := NewTheme("dark")

	for _, s := range []struct {
		name     string
		rendered string
	}{
		{"InputBox", theme.InputBox.Render("look around")},
		{"InputBoxFocused", theme.InputBoxFocused.Render("look around")},
		{"InputBoxDisabled", theme.InputBoxDisabled.Render("look around")},
		{"CharCount", theme.CharCount.Render("12/1000")},
		{"CharCountWarning", theme.CharCountWarning.Render("950/1000")},
		{"CharCountDanger", theme.CharCountDanger.Render("1000/1000")},
	} {
		if s.rendered == "" {
			t.Errorf("%s should render text", s.name)
		}
	}
}

func TestJumpToLatestRenders(t *testing.T) {
	theme := NewTheme("dark")
	out := theme.JumpToLatest.Render("v latest")
	if out == "" {
		t.Error("jump-to-latest affordance should render text")
	}
}

func TestStylesSurviveResize(t *testing.T) {
	theme := NewTheme("dark")
	theme.SetSize(150, 50)

	if theme.Header.Render("fable") == "" {
		t.Error("header should render after resize")
	}
	if theme.StatusBar.Render("ready") == "" {
		t.Error("status bar should render after resize")
	}
}
