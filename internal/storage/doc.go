// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local SQLite story archive.
//
// # Key Types
//
//   - Archive: the archive handle. Opens a WAL-mode SQLite database and
//     exposes SaveStory, ListStories, GetStory, and DeleteStory.
//   - StoryRecord: a listing row with a preview (the first player
//     action) and message count.
//
// The schema mirrors the server's conversation/message layout so a
// story saved locally round-trips into the same transcript shape the
// server returns. A still-streaming tail is never persisted; the save
// after finalization picks it up.
//
// # Usage
//
//	archive, err := storage.Open(path, cfg.Archive.MaxStories)
//	if err != nil { ... }
//	defer archive.Close()
//
//	err = archive.SaveStory(transcript, serverID)
//	records, err := archive.ListStories()
package storage
