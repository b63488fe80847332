// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fableforge/fable-tui/internal/ui/styles"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner is a loading spinner shown while the narrator is thinking, before
// the first streamed text arrives.
type Spinner struct {
	spinner spinner.Model

	message   string
	startTime time.Time

	isActive  bool
	showTimer bool
}

// SpinnerStyle selects the animation frames.
type SpinnerStyle int

const (
	SpinnerLine SpinnerStyle = iota
	SpinnerDots
	SpinnerPulse
)

// NewSpinner creates a spinner with ASCII-safe frames.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.Duration(),
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	return Spinner{
		spinner:   s,
		message:   "Loading",
		showTimer: true,
	}
}

// NewNarratorSpinner creates the spinner shown while a turn is in flight.
func NewNarratorSpinner() Spinner {
	s := NewSpinner()
	s.message = "The narrator is thinking"
	s.SetStyle(SpinnerDots)
	return s
}

// SetStyle changes the animation frames.
func (s *Spinner) SetStyle(style SpinnerStyle) {
	var cfg styles.SpinnerConfig
	switch style {
	case SpinnerDots:
		cfg = styles.DotsSpinner
	case SpinnerPulse:
		cfg = styles.PulseSpinner
	default:
		cfg = styles.LineSpinner
	}
	s.spinner.Spinner = spinner.Spinner{
		Frames: cfg.Frames,
		FPS:    cfg.Duration(),
	}
}

// SetMessage sets the text displayed next to the spinner.
func (s *Spinner) SetMessage(msg string) {
	s.message = msg
}

// SetShowTimer enables or disables the elapsed time display.
func (s *Spinner) SetShowTimer(show bool) {
	s.showTimer = show
}

// Start activates the spinner and records the start time.
func (s *Spinner) Start() tea.Cmd {
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is currently running.
func (s *Spinner) IsActive() bool {
	return s.isActive
}

// Elapsed returns the duration since the spinner started.
func (s *Spinner) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// Update advances the animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner with its message and elapsed time.
func (s Spinner) View() string {
	if !s.isActive {
		return ""
	}

	messageStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)

	out := s.spinner.View() + " " + messageStyle.Render(s.message+"...")

	if s.showTimer {
		secs := int(s.Elapsed().Seconds())
		if secs >= 1 {
			timerStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
			out += " " + timerStyle.Render("("+strconv.Itoa(secs)+"s)")
		}
	}

	return out
}
