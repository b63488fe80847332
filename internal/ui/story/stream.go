// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package story

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// PERFORMANCE: narration deltas arrive from the HTTP stream far faster than
// a terminal can usefully repaint. Deltas accumulate in this buffer on the
// request goroutine, and the Bubble Tea update loop drains it on a fixed
// paint clock. This caps renders at paint-tick rate no matter how fast the
// server streams.

const (
	// defaultFlushFPS is the paint clock for draining buffered deltas,
	// used when stream.flush_fps is unset.
	defaultFlushFPS = 30

	// minFlushRunes holds a drain until at least this much text is pending,
	// unless the pending text ends mid-word. Keeps very small deltas from
	// causing word-by-word flicker on slow streams.
	minFlushRunes = 8
)

// StreamBuffer accumulates narration deltas between paint ticks.
//
// Write is called from the request goroutine; Drain and ForceDrain are
// called from the update loop. All methods are safe for concurrent use.
type StreamBuffer struct {
	mu          sync.Mutex
	pending     strings.Builder
	lastFlush   time.Time
	minInterval time.Duration
	total       int
}

// NewStreamBuffer returns an empty buffer.
func NewStreamBuffer() *StreamBuffer {
	return &StreamBuffer{}
}

// SetMinInterval sets the typing-effect pacing: Drain withholds text until
// at least d has passed since the previous release. Zero disables pacing,
// which tests rely on for determinism.
func (b *StreamBuffer) SetMinInterval(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d < 0 {
		d = 0
	}
	b.minInterval = d
}

// Write appends a delta to the pending buffer.
func (b *StreamBuffer) Write(delta string) {
	if delta == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending.WriteString(delta)
	b.total += len(delta)
}

// Drain returns the pending text if enough has accumulated and the typing
// interval has elapsed, or "" if the drain should wait for more. A pending
// chunk that ends in whitespace is released as soon as the interval allows,
// so the display never trails a completed word.
func (b *StreamBuffer) Drain() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.pending.String()
	if s == "" {
		return ""
	}
	if b.minInterval > 0 && time.Since(b.lastFlush) < b.minInterval {
		return ""
	}
	if len(s) < minFlushRunes && !endsAtBoundary(s) {
		return ""
	}
	b.pending.Reset()
	b.lastFlush = time.Now()
	return s
}

// ForceDrain returns all pending text regardless of size. Used when the
// stream completes so no buffered tail is lost.
func (b *StreamBuffer) ForceDrain() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.pending.String()
	b.pending.Reset()
	b.lastFlush = time.Now()
	return s
}

// Reset discards all pending text. Called when a turn is superseded.
func (b *StreamBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending.Reset()
	b.total = 0
}

// Pending reports how many bytes are waiting to be drained.
func (b *StreamBuffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending.Len()
}

// Total reports how many bytes have passed through the buffer since the
// last Reset.
func (b *StreamBuffer) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

func endsAtBoundary(s string) bool {
	if s == "" {
		return false
	}
	last := s[len(s)-1]
	return last == ' ' || last == '\n' || last == '\t'
}

// =============================================================================
// PAINT CLOCK
// =============================================================================

// streamTickCmd schedules the next paint tick while a narration streams.
// fps is clamped to a sane range; zero selects the default.
func streamTickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = defaultFlushFPS
	}
	if fps > 120 {
		fps = 120
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}
