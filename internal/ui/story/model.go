// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package story

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fableforge/fable-tui/internal/api"
	"github.com/fableforge/fable-tui/internal/config"
	"github.com/fableforge/fable-tui/internal/model"
	"github.com/fableforge/fable-tui/internal/ui/components"
	"github.com/fableforge/fable-tui/internal/ui/styles"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// View identifies which screen the story model is showing.
type View int

const (
	// ViewWelcome is the splash shown before the first action.
	ViewWelcome View = iota
	// ViewStory is the main transcript + input screen.
	ViewStory
	// ViewStories is the saved story browser.
	ViewStories
)

// =============================================================================
// ARCHIVER
// =============================================================================

// Archiver persists finished exchanges locally. A nil Archiver disables
// archiving.
type Archiver interface {
	// SaveStory upserts the transcript under its local ID. serverID is the
	// server-side conversation id, zero if the server never assigned one.
	SaveStory(t *model.Transcript, serverID int64) error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the story view.
//
// One turn at a time: while a narration is in flight, submissions are
// ignored and the input is disabled. Each turn gets a sequence number;
// completion messages carrying a stale sequence are dropped.
type Model struct {
	cfg    *config.Config
	theme  *styles.Theme
	client *api.Client

	// archive is nil when local archiving is disabled.
	archive Archiver

	view       View
	transcript *model.Transcript

	// conversationID is the server-side story id, zero until the server
	// assigns one on the first completed turn.
	conversationID int64

	// Generation state. seq increments on every submitted turn; inFlight
	// is true from submission until GenCompleteMsg for the current seq.
	inFlight bool
	seq      uint64
	genStart time.Time

	// buffer and cancelMgr are pointers: the Model is copied by value on
	// every update, and both hold mutexes.
	buffer    *StreamBuffer
	cancelMgr *cancelManager

	// Components
	viewport  *components.StoryViewport
	input     *components.StoryInput
	header    *components.Header
	statusBar *components.StatusBar
	spinner   components.Spinner
	welcome   *components.Welcome
	storyList *components.StoryList
	errBanner *components.ErrorBanner

	keys KeyMap

	width  int
	height int
	ready  bool

	// statusID tags the latest transient status so an expiry for an older
	// status cannot clear a newer one.
	statusID int

	version string
}

// NewModel builds the story view from configuration. client must be
// non-nil; archive may be nil.
func NewModel(cfg *config.Config, client *api.Client, archive Archiver, version string) Model {
	theme := styles.NewTheme(cfg.UI.Theme)

	input := components.NewStoryInput(theme)
	if cfg.Input.MaxChars > 0 {
		input.SetMaxChars(cfg.Input.MaxChars)
	}

	vp := components.NewStoryViewport(theme)
	vp.SetShowTimestamps(cfg.UI.ShowTimestamps)

	buffer := NewStreamBuffer()
	buffer.SetMinInterval(time.Duration(cfg.Stream.TypingIntervalMs) * time.Millisecond)

	var transcript *model.Transcript
	if intro := cfg.UI.Intro; intro != "" {
		transcript = model.NewTranscriptWithIntro(intro)
	} else {
		transcript = model.NewTranscript()
	}

	return Model{
		cfg:        cfg,
		theme:      theme,
		client:     client,
		archive:    archive,
		view:       ViewWelcome,
		transcript: transcript,
		buffer:     buffer,
		cancelMgr:  newCancelManager(),
		viewport:   vp,
		input:      input,
		header:     components.NewHeader(theme),
		statusBar:  components.NewStatusBar(theme),
		spinner:    components.NewNarratorSpinner(),
		welcome:    components.NewWelcome(version, theme),
		storyList:  components.NewStoryList(theme),
		errBanner:  components.NewErrorBanner(theme),
		keys:       DefaultKeyMap(),
		version:    version,
	}
}

// Init starts the cursor blink, focuses the input, and probes the server.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.input.Focus(),
		m.checkHealthCmd(),
	)
}

// Transcript exposes the story so far. Used by export.
func (m Model) Transcript() *model.Transcript {
	return m.transcript
}

// InFlight reports whether a narration is currently streaming.
func (m Model) InFlight() bool {
	return m.inFlight
}

// CurrentView reports which screen is showing.
func (m Model) CurrentView() View {
	return m.view
}

// setSize propagates a terminal resize to every component.
func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
	m.theme.SetSize(width, height)

	headerH := lineCount(m.header.View())
	inputH := lineCount(m.input.View())
	statusH := 1
	vpHeight := height - headerH - inputH - statusH
	if vpHeight < 3 {
		vpHeight = 3
	}

	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.input.SetWidth(width)
	m.viewport.SetSize(width, vpHeight)
	m.welcome.SetSize(width, height)
	m.storyList.SetSize(width, vpHeight)
	m.errBanner.SetWidth(width)
}

// resetStory starts a fresh story, dropping the current transcript.
// No-op while a narration is in flight.
func (m *Model) resetStory() {
	if m.inFlight {
		return
	}
	if intro := m.cfg.UI.Intro; intro != "" {
		m.transcript = model.NewTranscriptWithIntro(intro)
	} else {
		m.transcript = model.NewTranscript()
	}
	m.conversationID = 0
	m.buffer.Reset()
	m.viewport.SetMessages(m.transcript.History())
	m.input.Reset()
	m.errBanner.Dismiss()
}

// loadStory replaces the transcript with a story fetched from the server.
func (m *Model) loadStory(s *api.Story) {
	t := model.NewTranscript()
	for i := range s.Messages {
		sm := &s.Messages[i]
		var msg *model.Message
		switch sm.Role {
		case string(model.RolePlayer):
			msg = model.NewPlayerMessage(sm.Text)
		default:
			msg = model.NewNarratorMessage()
			msg.Finalize(sm.Text)
		}
		if ts, err := time.Parse(time.RFC3339, sm.CreatedAt); err == nil {
			msg.Timestamp = ts
		}
		t.Append(msg)
	}
	m.transcript = t
	m.conversationID = s.Meta.ID
	m.viewport.SetMessages(t.History())
	m.viewport.ScrollToBottom()
	m.view = ViewStory
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := 1
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}
