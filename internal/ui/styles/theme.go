// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// LayoutMode determines how the UI adapts to terminal width.
type LayoutMode int

const (
	// LayoutNarrow - Under 60 columns: minimal chrome, full-width bubbles
	LayoutNarrow LayoutMode = iota
	// LayoutMedium - 60-99 columns: standard layout
	LayoutMedium
	// LayoutWide - 100+ columns: generous padding, capped bubble width
	LayoutWide
)

// Theme holds all the styles for the application. A single Theme is built
// at startup and resized as the terminal changes.
type Theme struct {
	// Terminal capabilities detected at startup
	Profile       termenv.Profile
	HasDarkBg     bool
	Width, Height int

	// =========================================================================
	// LAYOUT
	// =========================================================================

	App         lipgloss.Style
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusDesc  lipgloss.Style

	// =========================================================================
	// MESSAGES
	// =========================================================================

	PlayerBubble   lipgloss.Style
	NarratorBubble lipgloss.Style
	IntroBubble    lipgloss.Style
	MessageLabel   lipgloss.Style
	Timestamp      lipgloss.Style
	ThinkingText   lipgloss.Style
	Spinner        lipgloss.Style

	// =========================================================================
	// INPUT
	// =========================================================================

	InputBox         lipgloss.Style
	InputBoxFocused  lipgloss.Style
	InputBoxDisabled lipgloss.Style
	InputPrompt      lipgloss.Style
	CharCount        lipgloss.Style
	CharCountWarning lipgloss.Style
	CharCountDanger  lipgloss.Style

	// =========================================================================
	// SCROLLING
	// =========================================================================

	JumpToLatest    lipgloss.Style
	ScrollIndicator lipgloss.Style

	// =========================================================================
	// STORY LIST
	// =========================================================================

	ListTitle        lipgloss.Style
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListPreview      lipgloss.Style
	ListTimestamp    lipgloss.Style

	// =========================================================================
	// WELCOME / ERRORS
	// =========================================================================

	WelcomeBox   lipgloss.Style
	WelcomeTitle lipgloss.Style
	WelcomeHint  lipgloss.Style
	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorText    lipgloss.Style
}

// NewTheme creates a theme with terminal capability detection.
// The preference is the configured theme name: "dark", "light", or "auto".
func NewTheme(preference string) *Theme {
	t := &Theme{
		Profile:   termenv.ColorProfile(),
		HasDarkBg: termenv.HasDarkBackground(),
		Width:     80,
		Height:    24,
	}

	// An explicit preference overrides background detection so adaptive
	// colors resolve consistently.
	switch preference {
	case "dark":
		t.HasDarkBg = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		t.HasDarkBg = false
		lipgloss.SetHasDarkBackground(false)
	}

	t.initStyles()
	return t
}

// initStyles builds all the styles. Called on creation and after resize.
func (t *Theme) initStyles() {
	// =========================================================================
	// LAYOUT
	// =========================================================================
	t.App = lipgloss.NewStyle()

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1).
		Width(t.Width)

	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1).
		Width(t.Width)

	t.StatusKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.StatusDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// =========================================================================
	// MESSAGES
	// =========================================================================
	bubbleWidth := t.bubbleWidth()

	t.PlayerBubble = lipgloss.NewStyle().
		Foreground(PlayerBubbleFg).
		Background(PlayerBubbleBg).
		Padding(0, 1).
		MaxWidth(bubbleWidth)

	t.NarratorBubble = lipgloss.NewStyle().
		Foreground(NarratorBubbleFg).
		Padding(0, 1).
		MaxWidth(bubbleWidth)

	t.IntroBubble = lipgloss.NewStyle().
		Foreground(IntroBubbleFg).
		Italic(true).
		Padding(0, 1).
		MaxWidth(bubbleWidth)

	t.MessageLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	// =========================================================================
	// INPUT
	// =========================================================================
	t.InputBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputBoxFocused = t.InputBox.
		BorderForeground(FocusRing)

	t.InputBoxDisabled = t.InputBox.
		Foreground(TextMuted)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.CharCountDanger = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// =========================================================================
	// SCROLLING
	// =========================================================================
	t.JumpToLatest = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1).
		Bold(true)

	t.ScrollIndicator = lipgloss.NewStyle().
		Foreground(TextMuted)

	// =========================================================================
	// STORY LIST
	// =========================================================================
	t.ListTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true).
		Padding(0, 1)

	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 2)

	t.ListItemSelected = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SelectionBg).
		Bold(true).
		Padding(0, 2)

	t.ListPreview = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ListTimestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// =========================================================================
	// WELCOME / ERRORS
	// =========================================================================
	t.WelcomeBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 2)

	t.WelcomeTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.WelcomeHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ErrorBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(TextPrimary)
}

// SetSize updates the theme for a new terminal size and rebuilds
// width-dependent styles.
func (t *Theme) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 5 {
		height = 5
	}
	t.Width = width
	t.Height = height
	t.initStyles()
}

// GetLayoutMode returns the layout mode for the current width.
func (t *Theme) GetLayoutMode() LayoutMode {
	switch {
	case t.Width < 60:
		return LayoutNarrow
	case t.Width < 100:
		return LayoutMedium
	default:
		return LayoutWide
	}
}

// bubbleWidth returns the maximum message bubble width for the current layout.
func (t *Theme) bubbleWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return t.Width - 2
	case LayoutMedium:
		return t.Width - 8
	default:
		return 96
	}
}
