// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for story transcripts and messages.
package model

import (
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_StreamingLifecycle(t *testing.T) {
	msg := NewNarratorMessage()
	if !msg.IsStreaming {
		t.Fatal("New narrator message should be streaming")
	}
	if !msg.IsEmpty() {
		t.Error("New narrator message should be empty")
	}

	msg.AppendDelta("The door ")
	msg.AppendDelta("creaks open.")
	if msg.DisplayText() != "The door creaks open." {
		t.Errorf("DisplayText() = %q", msg.DisplayText())
	}
	if msg.Text != "" {
		t.Error("Text should stay empty while streaming")
	}

	msg.Finalize("The door creaks open.\n\nBeyond lies darkness.")
	if msg.IsStreaming {
		t.Error("Message should not be streaming after Finalize")
	}
	if msg.Text != "The door creaks open.\n\nBeyond lies darkness." {
		t.Errorf("Final text = %q", msg.Text)
	}
	if msg.DisplayText() != msg.Text {
		t.Error("DisplayText should return final text after Finalize")
	}
}

func TestMessage_AppendDeltaAfterFinalize(t *testing.T) {
	msg := NewNarratorMessage()
	msg.Finalize("done")
	msg.AppendDelta("late delta")
	if msg.DisplayText() != "done" {
		t.Errorf("Delta after finalize should be ignored, got %q", msg.DisplayText())
	}
}

func TestMessage_ReplaceText(t *testing.T) {
	msg := NewNarratorMessage()
	msg.AppendDelta("provisional")
	if !msg.ReplaceText("authoritative") {
		t.Fatal("ReplaceText should succeed on a streaming message")
	}
	if msg.DisplayText() != "authoritative" {
		t.Errorf("DisplayText() = %q", msg.DisplayText())
	}
	if !msg.IsStreaming {
		t.Error("ReplaceText should not end streaming")
	}

	msg.Finalize("final")
	if msg.ReplaceText("too late") {
		t.Error("ReplaceText should fail on a finalized message")
	}
}

func TestMessage_SettleKeepsPartialText(t *testing.T) {
	msg := NewNarratorMessage()
	msg.AppendDelta("You take a step")
	msg.Settle()
	if msg.IsStreaming {
		t.Error("Message should not be streaming after Settle")
	}
	if msg.Text != "You take a step" {
		t.Errorf("Settle should keep partial text, got %q", msg.Text)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewPlayerMessage("go north through the ancient gate")
	if got := msg.Preview(10); got != "go nort..." {
		t.Errorf("Preview(10) = %q", got)
	}
	if got := msg.Preview(100); got != "go north through the ancient gate" {
		t.Errorf("Preview(100) = %q", got)
	}

	// Rune-based truncation must not split multi-byte characters
	unicodeMsg := NewPlayerMessage("日本語のテキストです")
	preview := unicodeMsg.Preview(7)
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview = %q, want ... suffix", preview)
	}
	if strings.ContainsRune(preview, '�') {
		t.Errorf("Preview split a rune: %q", preview)
	}
}

func TestMessage_GeneratedIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewPlayerMessage("x")
		if seen[msg.ID] {
			t.Fatalf("Duplicate message ID %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestRole_DisplayName(t *testing.T) {
	if RolePlayer.DisplayName() != "You" {
		t.Errorf("RolePlayer.DisplayName() = %q", RolePlayer.DisplayName())
	}
	if RoleNarrator.DisplayName() != "Narrator" {
		t.Errorf("RoleNarrator.DisplayName() = %q", RoleNarrator.DisplayName())
	}
	if RoleNarrator.String() != "ai" {
		t.Errorf("RoleNarrator wire value = %q, want ai", RoleNarrator.String())
	}
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_SeededIntro(t *testing.T) {
	tr := NewTranscriptWithIntro("You awaken in a dim clearing.")
	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tr.Len())
	}
	first := tr.Messages[0]
	if !first.Intro || first.Role != RoleNarrator {
		t.Errorf("Seeded message = %+v, want intro narrator", first)
	}
	if tr.HasActiveTail() {
		t.Error("Seeded transcript should have no active tail")
	}
}

func TestTranscript_ExchangeAppendsExactlyTwo(t *testing.T) {
	tr := NewTranscriptWithIntro("intro")
	player, narrator := tr.BeginExchange("look around")

	if tr.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", tr.Len())
	}
	if player.Role != RolePlayer || player.Text != "look around" {
		t.Errorf("Player message = %+v", player)
	}
	if narrator.Role != RoleNarrator || !narrator.IsStreaming {
		t.Errorf("Narrator placeholder = %+v", narrator)
	}
	if tr.Tail() != narrator {
		t.Error("Tail should be the narrator placeholder")
	}
}

func TestTranscript_StreamIntoTail(t *testing.T) {
	tr := NewTranscript()
	tr.BeginExchange("go north")

	tr.AppendToTail("The path ")
	tr.AppendToTail("winds upward.")
	if got := tr.Tail().DisplayText(); got != "The path winds upward." {
		t.Errorf("Tail text = %q", got)
	}

	final := tr.FinalizeTail("The path winds upward.\n\nMist gathers.")
	if final == nil {
		t.Fatal("FinalizeTail returned nil")
	}
	if tr.HasActiveTail() {
		t.Error("Tail slot should be cleared after FinalizeTail")
	}
	if final.Text != "The path winds upward.\n\nMist gathers." {
		t.Errorf("Final text = %q", final.Text)
	}
}

func TestTranscript_ReplaceTailOutsideExchange(t *testing.T) {
	tr := NewTranscriptWithIntro("intro")
	if tr.ReplaceTail("stray text") {
		t.Error("ReplaceTail with no active tail should return false")
	}
	if tr.Messages[0].DisplayText() != "intro" {
		t.Error("ReplaceTail with no active tail must not mutate messages")
	}
}

func TestTranscript_ReplaceTailDuringExchange(t *testing.T) {
	tr := NewTranscript()
	tr.BeginExchange("hi")
	tr.AppendToTail("provisional stream")

	if !tr.ReplaceTail("clean text") {
		t.Fatal("ReplaceTail should succeed during an exchange")
	}
	if got := tr.Tail().DisplayText(); got != "clean text" {
		t.Errorf("Tail text = %q", got)
	}
}

func TestTranscript_SettleTailNoRollback(t *testing.T) {
	tr := NewTranscriptWithIntro("intro")
	tr.BeginExchange("go north")
	tr.AppendToTail("You take a step")

	settled := tr.SettleTail()
	if settled == nil {
		t.Fatal("SettleTail returned nil")
	}

	// Both exchange messages remain: no rollback on failure.
	if tr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tr.Len())
	}
	if settled.Text != "You take a step" {
		t.Errorf("Partial text = %q", settled.Text)
	}
	if tr.HasActiveTail() {
		t.Error("Tail slot should be cleared after SettleTail")
	}
}

func TestTranscript_TailSurvivesLaterAppends(t *testing.T) {
	tr := NewTranscript()
	_, narrator := tr.BeginExchange("hi")

	// A message appended after the tail must not steal delta routing.
	tr.Append(NewPlayerMessage("impatient follow-up"))
	tr.AppendToTail("delta")

	if narrator.DisplayText() != "delta" {
		t.Errorf("Delta went to %q, want the original tail", tr.Last().DisplayText())
	}
	if tr.Last().DisplayText() != "impatient follow-up" {
		t.Error("Later append was mutated by tail routing")
	}
}

func TestTranscript_FinalizeTailIdempotent(t *testing.T) {
	tr := NewTranscript()
	tr.BeginExchange("hi")
	if tr.FinalizeTail("first") == nil {
		t.Fatal("First FinalizeTail should succeed")
	}
	if tr.FinalizeTail("second") != nil {
		t.Error("Second FinalizeTail should return nil")
	}
}

func TestTranscript_PrunePreservesIntro(t *testing.T) {
	tr := NewTranscriptWithIntro("the beginning")
	for i := 0; i < MaxMessages+50; i++ {
		tr.Append(NewPlayerMessage("filler"))
	}

	if tr.Len() > MaxMessages+1 {
		t.Errorf("Len() = %d, want <= %d", tr.Len(), MaxMessages+1)
	}
	if !tr.Messages[0].Intro {
		t.Error("Intro message should survive pruning")
	}
}

func TestTranscript_Meta(t *testing.T) {
	tr := NewTranscriptWithIntro("intro")
	tr.ServerID = 42
	tr.BeginExchange("explore the ruins")
	tr.FinalizeTail("Stone columns rise around you.")

	meta := tr.Meta()
	if meta.ServerID != 42 {
		t.Errorf("Meta.ServerID = %d", meta.ServerID)
	}
	if meta.MessageCount != 3 {
		t.Errorf("Meta.MessageCount = %d", meta.MessageCount)
	}
	if meta.Preview != "explore the ruins" {
		t.Errorf("Meta.Preview = %q", meta.Preview)
	}
}

func TestTranscript_Clone(t *testing.T) {
	tr := NewTranscriptWithIntro("intro")
	tr.BeginExchange("hi")

	clone := tr.Clone()
	clone.Messages[0].Text = "mutated"
	if tr.Messages[0].Text == "mutated" {
		t.Error("Clone shares message storage with original")
	}
	if !clone.HasActiveTail() {
		t.Error("Clone should preserve the active tail")
	}
}
