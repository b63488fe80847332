// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package story implements the interactive story screen of the fable TUI.
//
// # Key Types
//
//   - Model: the Bubble Tea model tying the transcript, viewport, input,
//     and server client together. One turn at a time: submissions while a
//     narration streams are ignored and the input is disabled.
//   - StreamBuffer: accumulates narration deltas from the request
//     goroutine; the update loop drains it on a 30 FPS paint clock so
//     render rate is independent of stream rate.
//   - cancelManager: holds the in-flight turn's context cancel function
//     behind a mutex, shared by every value copy of the Model.
//   - KeyMap: key bindings (enter act, esc cancel, end jump to latest,
//     ctrl+s stories, ctrl+t new story).
//
// # Turn Lifecycle
//
// A submitted action appends a player message and an empty streaming
// narrator message, aligns the new exchange to the top of the viewport,
// and starts the request. Deltas accumulate provisionally in the tail;
// on completion the tail is replaced with the server's authoritative
// text and finalized. On failure or cancellation the tail settles with
// whatever partial narration arrived, and nothing is rolled back.
//
// Every turn carries a sequence number. Completion messages with a stale
// sequence are dropped, so a cancelled turn's late result can never
// corrupt a newer exchange.
//
// # Usage
//
//	cfg, _ := config.Load()
//	client := api.NewClient(cfg.Server.URL, 30*time.Second)
//	m := story.NewModel(cfg, client, archive, version)
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	_, err := p.Run()
package story
