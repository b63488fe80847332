// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for story transcripts and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessages is the maximum number of messages to keep in a transcript.
// When exceeded, the oldest exchanges are pruned to prevent unbounded memory
// growth. The intro narration is always preserved.
const MaxMessages = 1000

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript holds a complete story session: the ordered message list plus
// an explicit tail slot for the narration currently being streamed.
//
// The tail is tracked by message ID rather than "last element" so that a
// stale stream can never mutate a message appended after it.
type Transcript struct {
	// Identity
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ServerID is the backend conversation id, zero until the first
	// exchange completes.
	ServerID int64 `json:"server_id,omitempty"`

	// Messages in arrival order. Entries are never reordered or removed
	// except by pruning at the head.
	Messages []*Message `json:"messages"`

	// tailID identifies the streaming narrator message, empty when no
	// narration is in flight.
	tailID string
}

// NewTranscript creates an empty transcript with a generated ID.
func NewTranscript() *Transcript {
	return &Transcript{
		ID:        generateTranscriptID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// NewTranscriptWithIntro creates a transcript seeded with the opening
// narration.
func NewTranscriptWithIntro(intro string) *Transcript {
	t := NewTranscript()
	if intro != "" {
		t.Append(NewIntroMessage(intro))
	}
	return t
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the transcript.
func (t *Transcript) Append(msg *Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = time.Now()
	t.prune()
}

// BeginExchange appends the player's message and an empty streaming narrator
// placeholder, and designates the placeholder as the active tail. Returns
// both messages.
func (t *Transcript) BeginExchange(input string) (player, narrator *Message) {
	player = NewPlayerMessage(input)
	narrator = NewNarratorMessage()
	t.Append(player)
	t.Append(narrator)
	t.tailID = narrator.ID
	return player, narrator
}

// Tail returns the streaming narrator message, or nil when no narration is
// in flight.
func (t *Transcript) Tail() *Message {
	if t.tailID == "" {
		return nil
	}
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].ID == t.tailID {
			return t.Messages[i]
		}
	}
	return nil
}

// HasActiveTail returns true while a narration is being streamed.
func (t *Transcript) HasActiveTail() bool {
	return t.Tail() != nil
}

// AppendToTail appends a provisional delta to the active tail.
// No-op when no narration is in flight.
func (t *Transcript) AppendToTail(delta string) {
	if tail := t.Tail(); tail != nil {
		tail.AppendDelta(delta)
		t.UpdatedAt = time.Now()
	}
}

// ReplaceTail substitutes the active tail's provisional content wholesale.
// Returns false, changing nothing, when no narration is in flight.
func (t *Transcript) ReplaceTail(text string) bool {
	tail := t.Tail()
	if tail == nil {
		return false
	}
	tail.ReplaceText(text)
	t.UpdatedAt = time.Now()
	return true
}

// FinalizeTail completes the active tail with the authoritative text and
// clears the tail slot. Returns the finalized message, or nil when no
// narration was in flight.
func (t *Transcript) FinalizeTail(text string) *Message {
	tail := t.Tail()
	if tail == nil {
		return nil
	}
	tail.Finalize(text)
	t.tailID = ""
	t.UpdatedAt = time.Now()
	return tail
}

// SettleTail completes the active tail keeping whatever provisional content
// arrived, and clears the tail slot. Both the player message and the partial
// narration remain in the transcript; a failed stream never rolls back.
func (t *Transcript) SettleTail() *Message {
	tail := t.Tail()
	if tail == nil {
		return nil
	}
	tail.Settle()
	t.tailID = ""
	t.UpdatedAt = time.Now()
	return tail
}

// Last returns the most recent message, or nil if empty.
func (t *Transcript) Last() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// LastPlayerMessage returns the most recent player message.
func (t *Transcript) LastPlayerMessage() *Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == RolePlayer {
			return t.Messages[i]
		}
	}
	return nil
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// IsEmpty returns true if there are no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.Messages) == 0
}

// History returns the message list for display.
func (t *Transcript) History() []*Message {
	return t.Messages
}

// =============================================================================
// SERIALIZATION HELPERS
// =============================================================================

// Preview returns a short preview of the transcript.
func (t *Transcript) Preview() string {
	if len(t.Messages) == 0 {
		return "Empty story"
	}

	last := t.LastPlayerMessage()
	if last == nil {
		last = t.Messages[0]
	}

	return last.Preview(100)
}

// Meta returns lightweight metadata for listing.
func (t *Transcript) Meta() TranscriptMeta {
	return TranscriptMeta{
		ID:           t.ID,
		ServerID:     t.ServerID,
		MessageCount: len(t.Messages),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Preview:      t.Preview(),
	}
}

// TranscriptMeta holds lightweight metadata for listing.
type TranscriptMeta struct {
	ID           string    `json:"id"`
	ServerID     int64     `json:"server_id,omitempty"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Preview      string    `json:"preview"`
}

// Clone creates a deep copy of the transcript.
func (t *Transcript) Clone() *Transcript {
	clone := &Transcript{
		ID:        t.ID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		ServerID:  t.ServerID,
		Messages:  make([]*Message, len(t.Messages)),
		tailID:    t.tailID,
	}

	for i, msg := range t.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}

	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateTranscriptID creates a unique transcript ID.
func generateTranscriptID() string {
	return "story_" + uuid.New().String()
}

// prune removes the oldest messages when the transcript exceeds MaxMessages.
// The intro narration (if any) is preserved.
func (t *Transcript) prune() {
	if len(t.Messages) <= MaxMessages {
		return
	}

	var intro []*Message
	var rest []*Message
	for _, msg := range t.Messages {
		if msg.Intro {
			intro = append(intro, msg)
		} else {
			rest = append(rest, msg)
		}
	}

	if len(rest) > MaxMessages {
		rest = rest[len(rest)-MaxMessages:]
	}

	t.Messages = make([]*Message, 0, len(intro)+len(rest))
	t.Messages = append(t.Messages, intro...)
	t.Messages = append(t.Messages, rest...)
}
