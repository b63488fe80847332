// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for story transcripts and messages.
//
// This package defines the core domain types used throughout the application
// for representing a story session: the ordered transcript, its messages, and
// the streaming tail slot.
//
// # Key Types
//
//   - Transcript: Append-only message list with an explicit slot for the
//     narration currently being streamed
//   - Message: Single transcript entry with role, text, and streaming state
//   - Role: Message author enumeration (player, ai)
//
// # Usage
//
// Start a story and run an exchange:
//
//	t := model.NewTranscriptWithIntro("You awaken in a dim clearing.")
//	t.BeginExchange("look around")
//	t.AppendToTail("The trees ")
//	t.AppendToTail("lean close.")
//	t.FinalizeTail("The trees lean close.\n\nSomething watches.")
//
// A failed stream keeps what arrived:
//
//	t.BeginExchange("go north")
//	t.AppendToTail("You take a step")
//	t.SettleTail() // partial narration stays, tail slot cleared
package model
