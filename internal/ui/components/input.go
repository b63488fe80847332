// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fableforge/fable-tui/internal/ui/styles"
)

// =============================================================================
// STORY INPUT COMPONENT - Action prompt with character counter
// =============================================================================

// DefaultMaxChars mirrors the server's input length limit.
const DefaultMaxChars = 1000

// StoryInput is the player's action prompt. It enforces the character limit
// as the player types and is disabled while a narration is in flight so a
// story never has two generations running at once.
type StoryInput struct {
	input    textinput.Model
	maxChars int
	width    int
	focused  bool
	disabled bool
	theme    *styles.Theme
}

// NewStoryInput creates the action prompt.
func NewStoryInput(theme *styles.Theme) *StoryInput {
	ti := textinput.New()
	ti.Placeholder = "What do you do?"
	ti.CharLimit = DefaultMaxChars
	ti.Width = 70
	ti.Prompt = "> "

	ti.PromptStyle = lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	ti.TextStyle = lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	ti.PlaceholderStyle = lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	ti.Cursor.Style = lipgloss.NewStyle().
		Foreground(styles.Cyan)

	return &StoryInput{
		input:    ti,
		maxChars: DefaultMaxChars,
		width:    80,
		theme:    theme,
	}
}

// Focus focuses the input.
func (i *StoryInput) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// Blur removes focus from the input.
func (i *StoryInput) Blur() {
	i.focused = false
	i.input.Blur()
}

// Focused returns whether the input is focused.
func (i *StoryInput) Focused() bool {
	return i.focused
}

// SetDisabled gates the input while a narration is in flight. The typed
// text is preserved so the player can edit it once the turn completes.
func (i *StoryInput) SetDisabled(disabled bool) {
	i.disabled = disabled
	if disabled {
		i.input.Blur()
	} else if i.focused {
		i.input.Focus()
	}
}

// Disabled reports whether the input is gated.
func (i *StoryInput) Disabled() bool {
	return i.disabled
}

// SetWidth sets the input area width.
func (i *StoryInput) SetWidth(width int) {
	i.width = width
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	i.input.Width = inputWidth
}

// SetMaxChars sets the maximum input length in characters.
func (i *StoryInput) SetMaxChars(max int) {
	if max <= 0 {
		max = DefaultMaxChars
	}
	i.maxChars = max
	i.input.CharLimit = max
}

// Value returns the raw input value.
func (i *StoryInput) Value() string {
	return i.input.Value()
}

// SubmitValue returns the trimmed input, or "" when there is nothing to send.
func (i *StoryInput) SubmitValue() string {
	return strings.TrimSpace(i.input.Value())
}

// SetValue sets the input value.
func (i *StoryInput) SetValue(value string) {
	i.input.SetValue(value)
}

// Reset clears the input.
func (i *StoryInput) Reset() {
	i.input.Reset()
}

// Update handles input updates. Keystrokes are dropped while disabled.
func (i *StoryInput) Update(msg tea.Msg) (*StoryInput, tea.Cmd) {
	if i.disabled {
		if _, ok := msg.(tea.KeyMsg); ok {
			return i, nil
		}
	}

	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View renders the input box with its character counter.
func (i *StoryInput) View() string {
	inputView := i.input.View()

	boxStyle := i.theme.InputBox
	switch {
	case i.disabled:
		boxStyle = i.theme.InputBoxDisabled
	case i.focused:
		boxStyle = i.theme.InputBoxFocused
	}
	box := boxStyle.Width(i.width - 2).Render(inputView)

	counterStyle := lipgloss.NewStyle().
		Width(i.width - 4).
		Align(lipgloss.Right)
	counter := counterStyle.Render(i.renderCharCounter())

	return lipgloss.JoinVertical(lipgloss.Left, box, counter)
}

// renderCharCounter renders "n / max" with warning colors near the limit.
func (i *StoryInput) renderCharCounter() string {
	count := len([]rune(i.input.Value()))

	text := strconv.Itoa(count) + " / " + strconv.Itoa(i.maxChars)

	if i.disabled {
		waiting := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
		return waiting.Render("the narrator is writing...")
	}

	style := i.theme.CharCount
	percent := float64(count) / float64(i.maxChars) * 100
	switch {
	case percent >= 95:
		style = i.theme.CharCountDanger
	case percent >= 80:
		style = i.theme.CharCountWarning
	}

	return style.Render(text)
}
