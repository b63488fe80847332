// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package story

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fableforge/fable-tui/internal/api"
	"github.com/fableforge/fable-tui/internal/export"
	"github.com/fableforge/fable-tui/internal/ui/components"
)

// =============================================================================
// GENERATION COMMANDS
// =============================================================================

// generateCmd runs one turn against the server. Deltas land in the stream
// buffer; the paint clock drains them into the transcript tail. The
// returned message carries seq so a superseded turn can be recognized.
//
// The context has no deadline: narration length is unbounded and the
// player cancels with esc.
func (m Model) generateCmd(seq uint64, input string, conversationID int64) tea.Cmd {
	client := m.client
	buffer := m.buffer
	cancelMgr := m.cancelMgr

	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		cancelMgr.set(cancel)
		defer cancel()

		result, err := client.Generate(ctx, input, conversationID, func(delta string) {
			buffer.Write(delta)
		})
		return GenCompleteMsg{Seq: seq, Result: result, Err: err}
	}
}

// =============================================================================
// SERVER COMMANDS
// =============================================================================

const healthInterval = 30 * time.Second

// checkHealthCmd probes the server once.
func (m Model) checkHealthCmd() tea.Cmd {
	client := m.client
	timeout := time.Duration(m.cfg.Server.HealthCheckSecs) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.CheckHealth(ctx)
		return HealthStatusMsg{Online: err == nil, Err: err}
	}
}

// healthTickCmd schedules the next periodic health probe.
func healthTickCmd() tea.Cmd {
	return tea.Tick(healthInterval, func(time.Time) tea.Msg {
		return HealthTickMsg{}
	})
}

// loadStoriesCmd fetches the saved story list.
func (m Model) loadStoriesCmd() tea.Cmd {
	client := m.client
	timeout := m.requestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		stories, err := client.ListStories(ctx)
		return StoriesLoadedMsg{Stories: stories, Err: err}
	}
}

// loadStoryCmd fetches a full story for resuming.
func (m Model) loadStoryCmd(id int64) tea.Cmd {
	client := m.client
	timeout := m.requestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		story, err := client.GetStory(ctx, id)
		return StoryLoadedMsg{Story: story, Err: err}
	}
}

// deleteStoryCmd removes a story server-side.
func (m Model) deleteStoryCmd(id int64) tea.Cmd {
	client := m.client
	timeout := m.requestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.DeleteStory(ctx, id)
		return StoryDeletedMsg{ID: id, Err: err}
	}
}

func (m Model) requestTimeout() time.Duration {
	if secs := m.cfg.Server.RequestTimeoutSecs; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 30 * time.Second
}

// =============================================================================
// ARCHIVE COMMANDS
// =============================================================================

// archiveCmd persists the transcript locally. No-op when archiving is
// disabled.
func (m Model) archiveCmd() tea.Cmd {
	if m.archive == nil {
		return nil
	}
	archive := m.archive
	// Clone so the snapshot is stable even if the next turn starts before
	// the write finishes.
	snapshot := m.transcript.Clone()
	serverID := m.conversationID
	return func() tea.Msg {
		return ArchiveSavedMsg{Err: archive.SaveStory(snapshot, serverID)}
	}
}

// exportCmd writes the current transcript to the working directory as
// Markdown.
func (m Model) exportCmd() tea.Cmd {
	snapshot := m.transcript.Clone()
	return func() tea.Msg {
		opts := export.DefaultOptions()
		path, err := export.ExportToFile(snapshot, export.NewMarkdownExporter(opts), opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// =============================================================================
// STATUS COMMANDS
// =============================================================================

const statusLifetime = 4 * time.Second

// setStatusCmd shows a transient status line and schedules its expiry.
func (m *Model) setStatusCmd(status string, isError bool) tea.Cmd {
	m.statusID++
	id := m.statusID
	m.statusBar.SetStatus(status, isError)
	return tea.Tick(statusLifetime, func(time.Time) tea.Msg {
		return StatusExpiredMsg{ID: id}
	})
}

// storyItems converts server metadata to list rows.
func storyItems(stories []api.StoryMeta) []components.StoryItem {
	items := make([]components.StoryItem, 0, len(stories))
	for _, s := range stories {
		updated, _ := time.Parse(time.RFC3339, s.UpdatedAt)
		items = append(items, components.StoryItem{
			ID:           s.ID,
			Preview:      "Story " + strconv.FormatInt(s.ID, 10),
			MessageCount: s.MessageCount,
			UpdatedAt:    updated,
		})
	}
	return items
}
