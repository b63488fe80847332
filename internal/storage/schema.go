// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

const (
	// SchemaVersion tracks the archive schema version for migrations
	SchemaVersion = 1
)

// SQLite schema for the local story archive. Mirrors the server's
// conversation/message layout so a resumed story round-trips cleanly.
const Schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Stories table: one row per archived story
CREATE TABLE IF NOT EXISTS stories (
    id TEXT PRIMARY KEY,        -- local transcript id
    server_id INTEGER,          -- backend conversation id, 0 if never assigned
    created_at INTEGER NOT NULL, -- Unix timestamp
    updated_at INTEGER NOT NULL  -- Unix timestamp
);

CREATE INDEX IF NOT EXISTS idx_stories_updated_at ON stories(updated_at);
CREATE INDEX IF NOT EXISTS idx_stories_server_id ON stories(server_id);

-- Messages table: story content in arrival order
CREATE TABLE IF NOT EXISTS messages (
    id TEXT PRIMARY KEY,        -- local message id
    story_id TEXT NOT NULL,
    seq INTEGER NOT NULL,       -- position within the story
    role TEXT NOT NULL,         -- "player" or "ai"
    text TEXT NOT NULL,
    intro INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL, -- Unix timestamp
    FOREIGN KEY(story_id) REFERENCES stories(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_messages_story_seq ON messages(story_id, seq);
`

// InitMetadata seeds the schema version row.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`
