// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the fable TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fableforge/fable-tui/internal/model"
	"github.com/fableforge/fable-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single transcript message as a styled bubble.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	IsLatest      bool
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for the given message.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Role: model.RoleNarrator}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message.Intro {
		return b.renderIntroBubble()
	}
	switch b.Message.Role {
	case model.RolePlayer:
		return b.renderPlayerBubble()
	default:
		return b.renderNarratorBubble()
	}
}

// ==========================================================================
// PLAYER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderPlayerBubble() string {
	content := b.Message.DisplayText()
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.PlayerBubbleFg).
		Background(styles.PlayerBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.PlayerBubbleBorder).
		Padding(0, 2).
		Width(contentWidth)

	bubble := bubbleStyle.Render(wrapped)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render("you")

	if b.ShowTimestamp {
		if ts := b.renderTimestamp(); ts != "" {
			header += " " + ts
		}
	}

	// Right-align the bubble with a left margin
	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble),
	)
}

// ==========================================================================
// NARRATOR BUBBLE - Violet tones, left-aligned
// ==========================================================================

func (b *MessageBubble) renderNarratorBubble() string {
	content := b.Message.DisplayText()

	if b.Message.IsStreaming {
		content += b.renderStreamingCursor()
	}
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.NarratorBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.NarratorBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4)

	bubble := bubbleStyle.Render(wrapped)

	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render("narrator")

	if b.ShowTimestamp {
		if ts := b.renderTimestamp(); ts != "" {
			header += " " + ts
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// INTRO BUBBLE - Parchment tones, centered story opening
// ==========================================================================

func (b *MessageBubble) renderIntroBubble() string {
	content := b.Message.DisplayText()
	if content == "" {
		return ""
	}

	maxContentWidth := b.Width - 20
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-16)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.IntroBubbleFg).
		Italic(true).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.IntroBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Align(lipgloss.Center)

	bubble := bubbleStyle.Render(wrapped)

	centerStyle := lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Center)

	return centerStyle.Render(bubble)
}

// ==========================================================================
// HELPER METHODS
// ==========================================================================

func (b *MessageBubble) renderTimestamp() string {
	ts := b.Message.Timestamp
	if ts.IsZero() {
		return ""
	}

	timestampStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	return timestampStyle.Render(ts.Format("3:04 PM"))
}

func (b *MessageBubble) renderStreamingCursor() string {
	cursorStyle := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Blink(true)
	return cursorStyle.Render("_")
}

// ==========================================================================
// UTILITY FUNCTIONS
// ==========================================================================

// wordWrap wraps text to fit within the specified display width.
// UNICODE: widths use go-runewidth so CJK text and emoji wrap correctly.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if runewidth.StringWidth(currentLine)+1+runewidth.StringWidth(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
	}

	return result.String()
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// maxInt returns the maximum of two integers.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a transcript as a vertical list of bubbles and tracks
// the line offset where each message starts, which the viewport uses to
// align the newest exchange to the top of the visible area.
type MessageList struct {
	Messages       []*model.Message
	Width          int
	ShowTimestamps bool
	theme          *styles.Theme

	// startLines[i] is the first rendered line of message i, valid after View.
	startLines []int
	totalLines int
}

// NewMessageList creates an empty message list.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		Messages:       []*model.Message{},
		Width:          80,
		ShowTimestamps: true,
		theme:          theme,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders all messages and records per-message line offsets.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)

		ml.startLines = nil
		ml.totalLines = 0
		return emptyStyle.Render("The story has not begun. Type an action to start.")
	}

	ml.startLines = make([]int, len(ml.Messages))
	line := 0

	var blocks []string
	for i, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.IsLatest = i == len(ml.Messages)-1

		block := bubble.View()
		ml.startLines[i] = line
		line += strings.Count(block, "\n") + 2 // +1 for the separator line
		blocks = append(blocks, block)
	}
	ml.totalLines = line - 1

	return strings.Join(blocks, "\n\n")
}

// StartLine returns the first rendered line of message i. The value reflects
// the most recent View call.
func (ml *MessageList) StartLine(i int) int {
	if i < 0 || i >= len(ml.startLines) {
		return 0
	}
	return ml.startLines[i]
}

// TotalLines returns the rendered line count from the most recent View call.
func (ml *MessageList) TotalLines() int {
	return ml.totalLines
}
