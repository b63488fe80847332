// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local SQLite story archive.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/fableforge/fable-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrStoryNotFound = errors.New("story not found in archive")
	ErrArchiveClosed = errors.New("archive is closed")
)

// =============================================================================
// ARCHIVE
// =============================================================================

// Archive persists stories to a local SQLite database. Safe for
// concurrent use.
type Archive struct {
	db *sql.DB
	mu sync.Mutex

	// maxStories caps the archive size; oldest stories are pruned on
	// save. Zero means unlimited.
	maxStories int
}

// StoryRecord is a row in the archive listing.
type StoryRecord struct {
	ID           string
	ServerID     int64
	Preview      string
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Open opens (or creates) the archive at path. maxStories of zero means
// unlimited.
func Open(path string, maxStories int) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Archive{db: db, maxStories: maxStories}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// =============================================================================
// SAVE
// =============================================================================

// SaveStory upserts the transcript and its messages. A still-streaming
// tail is skipped; it is saved once finalized or settled. serverID is
// the backend conversation id, zero when the server never assigned one.
func (a *Archive) SaveStory(t *model.Transcript, serverID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return ErrArchiveClosed
	}

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO stories (id, server_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			server_id = excluded.server_id,
			updated_at = excluded.updated_at`,
		t.ID, serverID, t.CreatedAt.Unix(), t.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert story: %w", err)
	}

	// Rewrite messages wholesale. Stories are small; this keeps the
	// ordering column trivially correct.
	if _, err := tx.Exec(`DELETE FROM messages WHERE story_id = ?`, t.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (id, story_id, seq, role, text, intro, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	seq := 0
	for _, msg := range t.Messages {
		if msg.IsStreaming {
			continue
		}
		intro := 0
		if msg.Intro {
			intro = 1
		}
		if _, err := stmt.Exec(msg.ID, t.ID, seq, string(msg.Role), msg.Text, intro, msg.Timestamp.Unix()); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		seq++
	}

	if err := a.pruneTx(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// pruneTx removes the oldest stories beyond maxStories.
func (a *Archive) pruneTx(tx *sql.Tx) error {
	if a.maxStories <= 0 {
		return nil
	}
	_, err := tx.Exec(`
		DELETE FROM stories WHERE id IN (
			SELECT id FROM stories
			ORDER BY updated_at DESC
			LIMIT -1 OFFSET ?
		)`, a.maxStories)
	if err != nil {
		return fmt.Errorf("failed to prune archive: %w", err)
	}
	return nil
}

// =============================================================================
// LIST / GET / DELETE
// =============================================================================

// ListStories returns archived stories, newest first. The preview is
// the first player action, or the opening narration for unstarted
// stories.
func (a *Archive) ListStories() ([]StoryRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return nil, ErrArchiveClosed
	}

	rows, err := a.db.Query(`
		SELECT s.id, s.server_id, s.created_at, s.updated_at,
		       COUNT(m.id),
		       COALESCE((
		           SELECT text FROM messages
		           WHERE story_id = s.id AND role = 'player'
		           ORDER BY seq LIMIT 1
		       ), COALESCE((
		           SELECT text FROM messages
		           WHERE story_id = s.id
		           ORDER BY seq LIMIT 1
		       ), ''))
		FROM stories s
		LEFT JOIN messages m ON m.story_id = s.id
		GROUP BY s.id
		ORDER BY s.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer rows.Close()

	var records []StoryRecord
	for rows.Next() {
		var r StoryRecord
		var created, updated int64
		if err := rows.Scan(&r.ID, &r.ServerID, &created, &updated, &r.MessageCount, &r.Preview); err != nil {
			return nil, fmt.Errorf("failed to scan story row: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0)
		r.UpdatedAt = time.Unix(updated, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetStory loads a full transcript by local id.
func (a *Archive) GetStory(id string) (*model.Transcript, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return nil, ErrArchiveClosed
	}

	t := &model.Transcript{ID: id}
	var created, updated int64
	err := a.db.QueryRow(
		`SELECT server_id, created_at, updated_at FROM stories WHERE id = ?`, id).
		Scan(&t.ServerID, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load story: %w", err)
	}
	t.CreatedAt = time.Unix(created, 0)
	t.UpdatedAt = time.Unix(updated, 0)

	rows, err := a.db.Query(
		`SELECT id, role, text, intro, created_at FROM messages
		 WHERE story_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			msgID, role, text string
			intro             int
			ts                int64
		)
		if err := rows.Scan(&msgID, &role, &text, &intro, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		msg := &model.Message{
			ID:        msgID,
			Role:      model.Role(role),
			Text:      text,
			Intro:     intro != 0,
			Timestamp: time.Unix(ts, 0),
		}
		t.Messages = append(t.Messages, msg)
	}
	return t, rows.Err()
}

// DeleteStory removes a story and its messages.
func (a *Archive) DeleteStory(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return ErrArchiveClosed
	}

	res, err := a.db.Exec(`DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStoryNotFound
	}
	return nil
}

// Count returns the number of archived stories.
func (a *Archive) Count() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db == nil {
		return 0, ErrArchiveClosed
	}

	var n int
	if err := a.db.QueryRow(`SELECT COUNT(*) FROM stories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count stories: %w", err)
	}
	return n, nil
}
