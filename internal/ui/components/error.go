// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fableforge/fable-tui/internal/api"
	"github.com/fableforge/fable-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER
// =============================================================================

// ErrorBanner is a dismissible banner shown when a turn fails. The partial
// narration stays in the transcript; the banner explains what happened and
// whether retrying is worthwhile.
type ErrorBanner struct {
	title     string
	message   string
	retryable bool
	visible   bool
	shownAt   time.Time
	width     int
	theme     *styles.Theme
}

// NewErrorBanner creates a hidden error banner.
func NewErrorBanner(theme *styles.Theme) *ErrorBanner {
	return &ErrorBanner{
		width: 80,
		theme: theme,
	}
}

// SetWidth updates the banner width.
func (e *ErrorBanner) SetWidth(width int) {
	e.width = width
}

// ShowError displays the banner for the given error.
func (e *ErrorBanner) ShowError(err error) {
	if err == nil {
		return
	}
	e.title = "The story hit a snag"
	e.message = err.Error()
	e.retryable = api.IsRetryable(err)
	e.visible = true
	e.shownAt = time.Now()
}

// Show displays the banner with explicit text.
func (e *ErrorBanner) Show(title, message string, retryable bool) {
	e.title = title
	e.message = message
	e.retryable = retryable
	e.visible = true
	e.shownAt = time.Now()
}

// Dismiss hides the banner.
func (e *ErrorBanner) Dismiss() {
	e.visible = false
}

// Visible reports whether the banner is showing.
func (e *ErrorBanner) Visible() bool {
	return e.visible
}

// View renders the banner, or "" when hidden.
func (e *ErrorBanner) View() string {
	if !e.visible {
		return ""
	}

	title := e.theme.ErrorTitle.Render(styles.StatusIndicators.Error + " " + e.title)
	message := e.theme.ErrorText.Render(e.message)

	hintStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	hint := hintStyle.Render("esc dismiss")
	if e.retryable {
		hint = hintStyle.Render("your action and the partial narration are kept; try again  |  esc dismiss")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, message, hint)

	boxWidth := e.width - 4
	if boxWidth < 30 {
		boxWidth = 30
	}

	return e.theme.ErrorBox.Width(boxWidth).Render(content)
}
