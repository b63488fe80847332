// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package story

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fableforge/fable-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update routes Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamTickMsg:
		return m.handleStreamTick()

	case GenCompleteMsg:
		return m.handleGenComplete(msg)

	case HealthStatusMsg:
		if msg.Online {
			m.header.SetConnState(components.ConnConnected)
		} else {
			m.header.SetConnState(components.ConnOffline)
		}
		return m, healthTickCmd()

	case HealthTickMsg:
		return m, m.checkHealthCmd()

	case StoriesLoadedMsg:
		if msg.Err != nil {
			return m, m.setStatusCmd("could not load stories: "+msg.Err.Error(), true)
		}
		m.storyList.SetItems(storyItems(msg.Stories))
		return m, nil

	case StoryLoadedMsg:
		if msg.Err != nil {
			return m, m.setStatusCmd("could not open story: "+msg.Err.Error(), true)
		}
		m.loadStory(msg.Story)
		return m, m.input.Focus()

	case StoryDeletedMsg:
		if msg.Err != nil {
			return m, m.setStatusCmd("delete failed: "+msg.Err.Error(), true)
		}
		if msg.ID == m.conversationID {
			m.resetStory()
		}
		return m, tea.Batch(m.loadStoriesCmd(), m.setStatusCmd("story deleted", false))

	case ArchiveSavedMsg:
		if msg.Err != nil {
			return m, m.setStatusCmd("archive save failed: "+msg.Err.Error(), true)
		}
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			return m, m.setStatusCmd("export failed: "+msg.Err.Error(), true)
		}
		return m, m.setStatusCmd("exported to "+msg.Path, false)

	case StatusExpiredMsg:
		if msg.ID == m.statusID {
			m.statusBar.ClearStatus()
		}
		return m, nil

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case components.ScrollTickMsg:
		_, cmd := m.viewport.Update(msg)
		return m, cmd
	}

	// Spinner frames and cursor blink.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	_, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.cancelMgr.cancelActive()
		return m, tea.Quit
	}

	switch m.view {
	case ViewWelcome:
		return m.handleWelcomeKey(msg)
	case ViewStories:
		return m.handleStoriesKey(msg)
	default:
		return m.handleStoryKey(msg)
	}
}

func (m Model) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Stories):
		m.view = ViewStories
		return m, m.loadStoriesCmd()
	case key.Matches(msg, m.keys.Submit):
		// Submitting from the splash starts the story.
		if m.input.SubmitValue() != "" {
			m.view = ViewStory
			return m.submit()
		}
		m.view = ViewStory
		m.viewport.SetMessages(m.transcript.History())
		return m, nil
	}
	// Typing on the splash goes straight into the input.
	_, cmd := m.input.Update(msg)
	return m, cmd
}

func (m Model) handleStoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = ViewStory
		m.viewport.SetMessages(m.transcript.History())
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Submit):
		if item := m.storyList.Selected(); item != nil {
			return m, m.loadStoryCmd(item.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.DeleteStory):
		if item := m.storyList.Selected(); item != nil {
			return m, m.deleteStoryCmd(item.ID)
		}
		return m, nil
	}
	_, cmd := m.storyList.Update(msg)
	return m, cmd
}

func (m Model) handleStoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Cancel):
		if m.inFlight {
			// The context error surfaces through GenCompleteMsg; the
			// partial narration stays in the transcript.
			m.cancelMgr.cancelActive()
			return m, nil
		}
		if m.errBanner.Visible() {
			m.errBanner.Dismiss()
			return m, nil
		}
		return m, nil

	case key.Matches(msg, m.keys.JumpLatest):
		return m, m.viewport.JumpToLatest()

	case key.Matches(msg, m.keys.Stories):
		if m.inFlight {
			return m, nil
		}
		m.view = ViewStories
		return m, m.loadStoriesCmd()

	case key.Matches(msg, m.keys.NewStory):
		m.resetStory()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Export):
		if m.transcript.IsEmpty() {
			return m, m.setStatusCmd("nothing to export yet", false)
		}
		return m, m.exportCmd()

	case key.Matches(msg, m.keys.Timestamps):
		m.cfg.UI.ShowTimestamps = !m.cfg.UI.ShowTimestamps
		m.viewport.SetShowTimestamps(m.cfg.UI.ShowTimestamps)
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown),
		key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown),
		key.Matches(msg, m.keys.Top):
		_, cmd := m.viewport.Update(msg)
		return m, cmd
	}

	_, cmd := m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

// submit starts a new turn. Ignored while a narration is in flight or
// when the trimmed input is empty.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.inFlight {
		return m, nil
	}
	input := m.input.SubmitValue()
	if input == "" {
		return m, nil
	}

	m.transcript.BeginExchange(input)
	history := m.transcript.History()
	// The exchange starts at the player message, second from the end.
	m.viewport.BeginExchange(history, len(history)-2)

	m.input.Reset()
	m.input.SetDisabled(true)
	m.errBanner.Dismiss()
	m.header.SetStreaming(true)
	m.buffer.Reset()

	m.seq++
	m.inFlight = true
	m.view = ViewStory

	return m, tea.Batch(
		m.generateCmd(m.seq, input, m.conversationID),
		streamTickCmd(m.cfg.Stream.FlushFPS),
		m.spinner.Start(),
	)
}

// handleStreamTick drains buffered deltas into the transcript tail and
// schedules the next paint tick while the turn is in flight.
func (m Model) handleStreamTick() (tea.Model, tea.Cmd) {
	if !m.inFlight {
		return m, nil
	}
	if delta := m.buffer.Drain(); delta != "" {
		m.transcript.AppendToTail(delta)
		m.viewport.StreamUpdate()
	}
	return m, streamTickCmd(m.cfg.Stream.FlushFPS)
}

// handleGenComplete ends a turn. A stale sequence means the turn was
// superseded; its message is dropped without touching the transcript.
func (m Model) handleGenComplete(msg GenCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}

	// Drain whatever the paint clock had not picked up yet.
	if delta := m.buffer.ForceDrain(); delta != "" {
		m.transcript.AppendToTail(delta)
	}

	m.inFlight = false
	m.cancelMgr.clear()
	m.spinner.Stop()
	m.header.SetStreaming(false)
	m.input.SetDisabled(false)

	var cmds []tea.Cmd
	cmds = append(cmds, m.input.Focus())

	switch {
	case msg.Err == nil:
		m.transcript.FinalizeTail(msg.Result.Text)
		if msg.Result.ConversationID != 0 {
			m.conversationID = msg.Result.ConversationID
		}
		if cmd := m.archiveCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case errors.Is(msg.Err, context.Canceled):
		// Player hit esc. Keep the partial narration.
		m.transcript.SettleTail()
		cmds = append(cmds, m.setStatusCmd("narration interrupted", false))

	default:
		// Keep the player's action and any partial narration; nothing
		// is rolled back.
		m.transcript.SettleTail()
		m.errBanner.ShowError(msg.Err)
	}

	m.viewport.StreamUpdate()
	return m, tea.Batch(cmds...)
}

// handleConfigReloaded applies a config file change without a restart.
// Only live render parameters are applied; the theme and server address
// take effect on the next start.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Config == nil {
		return m, nil
	}
	m.cfg = msg.Config
	m.input.SetMaxChars(msg.Config.Input.MaxChars)
	m.buffer.SetMinInterval(time.Duration(msg.Config.Stream.TypingIntervalMs) * time.Millisecond)
	return m, m.setStatusCmd("configuration reloaded", false)
}
