// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for story transcripts and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a transcript message.
// The wire values match what the server stores ("player" / "ai").
type Role string

const (
	RolePlayer   Role = "player"
	RoleNarrator Role = "ai"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RolePlayer:
		return "You"
	case RoleNarrator:
		return "Narrator"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single entry in a story transcript.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// ServerID is the message id assigned by the backend, zero until known.
	ServerID int64 `json:"server_id,omitempty"`

	// Text is the final message content. While streaming, provisional
	// content lives in streamText and Text stays empty.
	Text string `json:"text"`

	// Streaming state (not persisted)
	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	IsStreaming bool            `json:"-"`
	streamText  strings.Builder `json:"-"`

	// Intro marks the seeded opening narration shown before any exchange.
	Intro bool `json:"intro,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, text string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewPlayerMessage creates a new player message.
func NewPlayerMessage(text string) *Message {
	return NewMessage(RolePlayer, text)
}

// NewNarratorMessage creates an empty narrator message in streaming state.
// Provisional deltas accumulate until ReplaceText or Finalize is called.
func NewNarratorMessage() *Message {
	return &Message{
		ID:          generateID(),
		Role:        RoleNarrator,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// NewIntroMessage creates the seeded opening narration.
func NewIntroMessage(text string) *Message {
	msg := NewMessage(RoleNarrator, text)
	msg.Intro = true
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendDelta appends a provisional chunk to a streaming message.
// No-op once the message has been finalized.
func (m *Message) AppendDelta(delta string) {
	if m.IsStreaming {
		m.streamText.WriteString(delta)
	}
}

// ReplaceText discards any provisional content and substitutes text wholesale.
// The message stays in streaming state. Returns false if the message is not
// streaming.
func (m *Message) ReplaceText(text string) bool {
	if !m.IsStreaming {
		return false
	}
	m.streamText.Reset()
	m.streamText.WriteString(text)
	return true
}

// Finalize completes streaming, replacing all provisional content with the
// authoritative text.
func (m *Message) Finalize(text string) {
	if !m.IsStreaming {
		return
	}
	m.Text = text
	m.streamText.Reset()
	m.IsStreaming = false
}

// Settle completes streaming keeping whatever provisional content arrived.
// Used when a stream fails partway: the partial narration stays visible.
func (m *Message) Settle() {
	if !m.IsStreaming {
		return
	}
	m.Text = m.streamText.String()
	m.streamText.Reset()
	m.IsStreaming = false
}

// DisplayText returns the content to display (provisional or final).
func (m *Message) DisplayText() string {
	if m.IsStreaming {
		return m.streamText.String()
	}
	return m.Text
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	text := m.DisplayText()
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Text) == 0 && m.streamText.Len() == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.New().String()
}
