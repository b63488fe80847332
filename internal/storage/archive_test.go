// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fableforge/fable-tui/internal/model"
)

func openTestArchive(t *testing.T, maxStories int) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive.db"), maxStories)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func sampleTranscript(t *testing.T, turns int) *model.Transcript {
	t.Helper()
	tr := model.NewTranscriptWithIntro("The forest waits.")
	for i := 0; i < turns; i++ {
		tr.BeginExchange("go deeper")
		tr.AppendToTail("The trees close in.")
		tr.FinalizeTail("The trees close in behind you.")
	}
	return tr
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	a := openTestArchive(t, 0)
	tr := sampleTranscript(t, 2)

	if err := a.SaveStory(tr, 7); err != nil {
		t.Fatalf("SaveStory() error: %v", err)
	}

	got, err := a.GetStory(tr.ID)
	if err != nil {
		t.Fatalf("GetStory() error: %v", err)
	}
	if got.ServerID != 7 {
		t.Errorf("ServerID = %d, want 7", got.ServerID)
	}
	// Intro + 2 exchanges of 2 messages each.
	if len(got.Messages) != 5 {
		t.Fatalf("loaded %d messages, want 5", len(got.Messages))
	}
	if !got.Messages[0].Intro || got.Messages[0].Text != "The forest waits." {
		t.Error("intro message not restored")
	}
	if got.Messages[1].Role != model.RolePlayer || got.Messages[1].Text != "go deeper" {
		t.Errorf("player message = %v %q", got.Messages[1].Role, got.Messages[1].Text)
	}
	if got.Messages[2].Text != "The trees close in behind you." {
		t.Errorf("narrator text = %q, want the finalized text", got.Messages[2].Text)
	}
}

func TestSaveSkipsStreamingTail(t *testing.T) {
	a := openTestArchive(t, 0)

	tr := model.NewTranscript()
	tr.BeginExchange("wait")
	tr.AppendToTail("partial narr")
	// Tail never finalized.

	if err := a.SaveStory(tr, 0); err != nil {
		t.Fatalf("SaveStory() error: %v", err)
	}
	got, err := a.GetStory(tr.ID)
	if err != nil {
		t.Fatalf("GetStory() error: %v", err)
	}
	if len(got.Messages) != 1 {
		t.Fatalf("loaded %d messages, want 1 (streaming tail skipped)", len(got.Messages))
	}
	if got.Messages[0].Role != model.RolePlayer {
		t.Error("surviving message must be the player action")
	}
}

func TestSaveIsUpsert(t *testing.T) {
	a := openTestArchive(t, 0)
	tr := sampleTranscript(t, 1)

	if err := a.SaveStory(tr, 0); err != nil {
		t.Fatalf("first SaveStory() error: %v", err)
	}

	tr.BeginExchange("turn back")
	tr.FinalizeTail("The path is gone.")
	if err := a.SaveStory(tr, 9); err != nil {
		t.Fatalf("second SaveStory() error: %v", err)
	}

	n, err := a.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d after resave, want 1", n)
	}

	got, _ := a.GetStory(tr.ID)
	if got.ServerID != 9 {
		t.Errorf("ServerID = %d after resave, want 9", got.ServerID)
	}
	if len(got.Messages) != 5 {
		t.Errorf("loaded %d messages after resave, want 5", len(got.Messages))
	}
}

func TestListNewestFirstWithPreview(t *testing.T) {
	a := openTestArchive(t, 0)

	older := sampleTranscript(t, 1)
	older.UpdatedAt = older.UpdatedAt.Add(-time.Hour)
	if err := a.SaveStory(older, 0); err != nil {
		t.Fatal(err)
	}
	newer := sampleTranscript(t, 1)
	if err := a.SaveStory(newer, 0); err != nil {
		t.Fatal(err)
	}

	records, err := a.ListStories()
	if err != nil {
		t.Fatalf("ListStories() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("listed %d stories, want 2", len(records))
	}
	if records[0].ID != newer.ID {
		t.Error("newest story must be listed first")
	}
	if records[0].Preview != "go deeper" {
		t.Errorf("Preview = %q, want the first player action", records[0].Preview)
	}
	if records[0].MessageCount != 3 {
		t.Errorf("MessageCount = %d, want 3", records[0].MessageCount)
	}
}

func TestDeleteStory(t *testing.T) {
	a := openTestArchive(t, 0)
	tr := sampleTranscript(t, 1)
	if err := a.SaveStory(tr, 0); err != nil {
		t.Fatal(err)
	}

	if err := a.DeleteStory(tr.ID); err != nil {
		t.Fatalf("DeleteStory() error: %v", err)
	}
	if _, err := a.GetStory(tr.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("GetStory() after delete = %v, want ErrStoryNotFound", err)
	}
	if err := a.DeleteStory(tr.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Errorf("second DeleteStory() = %v, want ErrStoryNotFound", err)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	a := openTestArchive(t, 2)

	first := sampleTranscript(t, 1)
	first.UpdatedAt = first.UpdatedAt.Add(-2 * time.Hour)
	second := sampleTranscript(t, 1)
	second.UpdatedAt = second.UpdatedAt.Add(-time.Hour)
	third := sampleTranscript(t, 1)

	for _, tr := range []*model.Transcript{first, second, third} {
		if err := a.SaveStory(tr, 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := a.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("Count() = %d with maxStories 2, want 2", n)
	}
	if _, err := a.GetStory(first.ID); !errors.Is(err, ErrStoryNotFound) {
		t.Error("oldest story must be pruned")
	}
	if _, err := a.GetStory(third.ID); err != nil {
		t.Errorf("newest story pruned: %v", err)
	}
}

func TestClosedArchiveRejectsOperations(t *testing.T) {
	a := openTestArchive(t, 0)
	a.Close()

	if err := a.SaveStory(sampleTranscript(t, 1), 0); !errors.Is(err, ErrArchiveClosed) {
		t.Errorf("SaveStory() on closed archive = %v, want ErrArchiveClosed", err)
	}
	if _, err := a.ListStories(); !errors.Is(err, ErrArchiveClosed) {
		t.Errorf("ListStories() on closed archive = %v, want ErrArchiveClosed", err)
	}
}
