// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package story

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fableforge/fable-tui/internal/api"
	"github.com/fableforge/fable-tui/internal/config"
	"github.com/fableforge/fable-tui/internal/model"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.UI.Intro = ""
	cfg.Archive.Enabled = false

	// Port 1 is never listening; tests never execute the generate command.
	client := api.NewClient("http://127.0.0.1:1", time.Second)
	m := NewModel(cfg, client, nil, "test")
	m.setSize(80, 24)
	m.view = ViewStory
	return m
}

// submitTurn drives a submission through Update and returns the updated model.
func submitTurn(t *testing.T, m Model, input string) Model {
	t.Helper()
	m.input.SetValue(input)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmitAppendsPlayerAndPlaceholder(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "open the door")

	if m.transcript.Len() != 2 {
		t.Fatalf("transcript has %d messages, want 2", m.transcript.Len())
	}
	history := m.transcript.History()
	if history[0].Role != model.RolePlayer || history[0].Text != "open the door" {
		t.Errorf("first message = %v %q", history[0].Role, history[0].Text)
	}
	if history[1].Role != model.RoleNarrator || !history[1].IsStreaming {
		t.Error("second message must be a streaming narrator placeholder")
	}
	if !m.inFlight {
		t.Error("inFlight = false after submit")
	}
	if !m.input.Disabled() {
		t.Error("input must be disabled while the narration streams")
	}
}

func TestSubmitTrimsInput(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "  look around  ")

	if got := m.transcript.History()[0].Text; got != "look around" {
		t.Errorf("player text = %q, want trimmed", got)
	}
}

func TestSubmitIgnoredWhenEmpty(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "   \t  ")

	if m.transcript.Len() != 0 {
		t.Errorf("transcript has %d messages after blank submit, want 0", m.transcript.Len())
	}
	if m.inFlight {
		t.Error("blank submit must not start a turn")
	}
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "first action")
	seq := m.seq

	m = submitTurn(t, m, "second action")

	if m.transcript.Len() != 2 {
		t.Errorf("transcript has %d messages, want 2 (second submit dropped)", m.transcript.Len())
	}
	if m.seq != seq {
		t.Errorf("seq advanced to %d during in-flight submit", m.seq)
	}
}

func TestSubmitIncrementsSequence(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "first")
	first := m.seq

	mi, _ := m.Update(GenCompleteMsg{Seq: first, Result: &api.GenerateResult{Text: "done"}})
	m = mi.(Model)
	m = submitTurn(t, m, "second")

	if m.seq != first+1 {
		t.Errorf("seq = %d after second turn, want %d", m.seq, first+1)
	}
}

// =============================================================================
// STREAMING
// =============================================================================

func TestStreamTickDrainsIntoTail(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "listen")

	m.buffer.Write("You hear water ")
	mi, cmd := m.Update(StreamTickMsg{Time: time.Now()})
	m = mi.(Model)

	if got := m.transcript.Tail().DisplayText(); got != "You hear water " {
		t.Errorf("tail text = %q", got)
	}
	if cmd == nil {
		t.Error("stream tick must reschedule while in flight")
	}
}

func TestStreamTickIgnoredWhenIdle(t *testing.T) {
	m := newTestModel(t)
	m.buffer.Write("orphan delta")

	mi, cmd := m.Update(StreamTickMsg{Time: time.Now()})
	m = mi.(Model)

	if cmd != nil {
		t.Error("idle stream tick must not reschedule")
	}
	if m.transcript.Len() != 0 {
		t.Error("idle stream tick must not touch the transcript")
	}
}

// =============================================================================
// COMPLETION
// =============================================================================

func TestGenCompleteFinalizesWithAuthoritativeText(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "enter")
	m.buffer.Write("provisional drift")

	mi, _ := m.Update(GenCompleteMsg{
		Seq:    m.seq,
		Result: &api.GenerateResult{Text: "The hall stretches before you.", ConversationID: 7},
	})
	m = mi.(Model)

	last := m.transcript.Last()
	if last.Text != "The hall stretches before you." {
		t.Errorf("final text = %q, want the authoritative text", last.Text)
	}
	if last.IsStreaming {
		t.Error("narrator message still streaming after completion")
	}
	if m.inFlight {
		t.Error("inFlight = true after completion")
	}
	if m.input.Disabled() {
		t.Error("input still disabled after completion")
	}
	if m.conversationID != 7 {
		t.Errorf("conversationID = %d, want 7", m.conversationID)
	}
}

func TestGenCompleteStaleSequenceDropped(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "act")

	mi, _ := m.Update(GenCompleteMsg{
		Seq:    m.seq - 1,
		Result: &api.GenerateResult{Text: "ghost of a cancelled turn"},
	})
	m = mi.(Model)

	if !m.inFlight {
		t.Error("stale completion must not end the current turn")
	}
	if m.transcript.Tail() == nil || !m.transcript.Tail().IsStreaming {
		t.Error("stale completion must not finalize the tail")
	}
}

func TestGenCompleteErrorKeepsPartialNarration(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "push on")
	m.buffer.Write("The bridge sways")

	mi, _ := m.Update(GenCompleteMsg{Seq: m.seq, Err: errors.New("connection reset")})
	m = mi.(Model)

	// Nothing rolls back: the action and the partial narration stay.
	if m.transcript.Len() != 2 {
		t.Fatalf("transcript has %d messages after failure, want 2", m.transcript.Len())
	}
	last := m.transcript.Last()
	if last.Text != "The bridge sways" {
		t.Errorf("settled text = %q, want the partial narration", last.Text)
	}
	if last.IsStreaming {
		t.Error("tail still streaming after failure")
	}
	if !m.errBanner.Visible() {
		t.Error("error banner not shown after failure")
	}
	if m.inFlight {
		t.Error("inFlight = true after failure")
	}
}

func TestGenCompleteCancelKeepsPartialWithoutBanner(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "wait")
	m.buffer.Write("Minutes pass")

	mi, _ := m.Update(GenCompleteMsg{Seq: m.seq, Err: context.Canceled})
	m = mi.(Model)

	if got := m.transcript.Last().Text; got != "Minutes pass" {
		t.Errorf("settled text = %q", got)
	}
	if m.errBanner.Visible() {
		t.Error("cancellation must not raise the error banner")
	}
}

// =============================================================================
// CANCELLATION KEY
// =============================================================================

func TestEscCancelsInFlightTurn(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "run")

	cancelled := false
	m.cancelMgr.set(func() { cancelled = true })

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mi.(Model)

	if !cancelled {
		t.Error("esc did not cancel the in-flight turn")
	}
}

func TestEscDismissesErrorBanner(t *testing.T) {
	m := newTestModel(t)
	m.errBanner.Show("snag", "boom", false)

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = mi.(Model)

	if m.errBanner.Visible() {
		t.Error("esc did not dismiss the error banner")
	}
}

// =============================================================================
// STORY LOADING
// =============================================================================

func TestLoadStoryRebuildsTranscript(t *testing.T) {
	m := newTestModel(t)

	story := &api.Story{
		Meta: api.StoryMeta{ID: 42, MessageCount: 2},
		Messages: []api.StoryMessage{
			{Role: "player", Text: "look", CreatedAt: "2026-08-01T10:00:00Z"},
			{Role: "ai", Text: "A lantern flickers.", CreatedAt: "2026-08-01T10:00:05Z"},
		},
	}
	mi, _ := m.Update(StoryLoadedMsg{Story: story})
	m = mi.(Model)

	if m.conversationID != 42 {
		t.Errorf("conversationID = %d, want 42", m.conversationID)
	}
	if m.transcript.Len() != 2 {
		t.Fatalf("transcript has %d messages, want 2", m.transcript.Len())
	}
	history := m.transcript.History()
	if history[0].Role != model.RolePlayer {
		t.Errorf("first role = %v, want player", history[0].Role)
	}
	if history[1].Text != "A lantern flickers." || history[1].IsStreaming {
		t.Error("narrator message not restored as finalized text")
	}
	if m.view != ViewStory {
		t.Error("loading a story must switch to the story view")
	}
}

func TestNewStoryResetsTranscript(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "go")
	mi, _ := m.Update(GenCompleteMsg{Seq: m.seq, Result: &api.GenerateResult{Text: "Gone.", ConversationID: 3}})
	m = mi.(Model)

	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = mi.(Model)

	if m.transcript.Len() != 0 {
		t.Errorf("transcript has %d messages after reset, want 0", m.transcript.Len())
	}
	if m.conversationID != 0 {
		t.Errorf("conversationID = %d after reset, want 0", m.conversationID)
	}
}

func TestResetIgnoredWhileInFlight(t *testing.T) {
	m := submitTurn(t, newTestModel(t), "go")

	mi, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = mi.(Model)

	if m.transcript.Len() != 2 {
		t.Error("reset must be a no-op while a narration streams")
	}
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestConfigReloadedAppliesLiveParams(t *testing.T) {
	m := newTestModel(t)

	cfg := config.Default()
	cfg.Input.MaxChars = 250
	cfg.Stream.TypingIntervalMs = 80

	mi, _ := m.Update(ConfigReloadedMsg{Config: cfg})
	m = mi.(Model)

	if m.cfg.Input.MaxChars != 250 {
		t.Errorf("MaxChars = %d after reload, want 250", m.cfg.Input.MaxChars)
	}
	if got := m.buffer.minInterval; got != 80*time.Millisecond {
		t.Errorf("buffer minInterval = %v after reload, want 80ms", got)
	}
}

func TestConfigReloadedNilConfigIgnored(t *testing.T) {
	m := newTestModel(t)
	before := m.cfg

	mi, _ := m.Update(ConfigReloadedMsg{})
	m = mi.(Model)

	if m.cfg != before {
		t.Error("a nil reload payload must leave the config untouched")
	}
}
