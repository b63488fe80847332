// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package story provides the interactive story view for the TUI.
//
// This file defines the Bubble Tea message types used by the story view:
//   - Generation: turn start, streamed paint ticks, completion
//   - Server: health checks and the saved story list
//   - Archive: local persistence results
//   - UI state: transient status expiry
//
// Every generation message carries the sequence number of the turn it
// belongs to. A message whose sequence does not match the model's current
// turn is stale (from a cancelled or superseded generation) and is dropped,
// so a late stream can never touch messages appended after it.
package story

import (
	"time"

	"github.com/fableforge/fable-tui/internal/api"
	"github.com/fableforge/fable-tui/internal/config"
)

// =============================================================================
// GENERATION MESSAGES
// =============================================================================

// StreamTickMsg is the paint clock while a narration streams. On each tick
// the model drains the streaming buffer into the transcript tail.
type StreamTickMsg struct {
	Time time.Time
}

// GenCompleteMsg signals that a turn finished, successfully or not.
// On success Result carries the authoritative full text and the server's
// conversation ID.
type GenCompleteMsg struct {
	Seq    uint64
	Result *api.GenerateResult
	Err    error
}

// =============================================================================
// SERVER MESSAGES
// =============================================================================

// HealthTickMsg schedules the next server health probe.
type HealthTickMsg struct{}

// HealthStatusMsg reports the server connection state.
type HealthStatusMsg struct {
	Online bool
	Err    error
}

// StoriesLoadedMsg delivers the saved story list from the server.
type StoriesLoadedMsg struct {
	Stories []api.StoryMeta
	Err     error
}

// StoryLoadedMsg delivers a full story fetched for resuming.
type StoryLoadedMsg struct {
	Story *api.Story
	Err   error
}

// StoryDeletedMsg confirms a server-side delete.
type StoryDeletedMsg struct {
	ID  int64
	Err error
}

// =============================================================================
// ARCHIVE MESSAGES
// =============================================================================

// ArchiveSavedMsg reports the result of persisting the transcript locally.
type ArchiveSavedMsg struct {
	Err error
}

// ExportDoneMsg reports the result of writing the transcript to a file.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// StatusExpiredMsg clears a transient status line.
type StatusExpiredMsg struct {
	ID int
}

// ConfigReloadedMsg delivers a freshly loaded config after the file on
// disk changed. Sent from the watcher goroutine via program.Send.
type ConfigReloadedMsg struct {
	Config *config.Config
}
