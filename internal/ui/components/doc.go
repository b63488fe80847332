// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable UI components for the fable TUI.

The components are built on Bubble Tea and Lip Gloss and share the theme
catalog from internal/ui/styles.

# Key Types

StoryViewport (viewport.go) - The scrollable transcript pane. While the
reader sits at the bottom it follows new content: when an exchange begins,
the newest messages are aligned to the top of the visible area so the
narration streams downward from there. Scrolling away disengages follow
mode and shows a jump-to-latest affordance; jumping back uses an eased
scroll animation driven by ScrollTickMsg frames.

StoryInput (input.go) - The player's action prompt with a character counter.
It enforces the input length limit and is disabled while a narration is in
flight.

MessageBubble / MessageList (message.go) - Transcript rendering. Player
actions are right-aligned blue bubbles, narration is left-aligned violet,
and the seeded opening is a centered parchment block. MessageList tracks
per-message line offsets for the viewport's alignment logic.

Header (header.go), StatusBar (statusbar.go) - Chrome showing the story
title, connection state, key hints, and transient status.

Spinner (spinner.go) - Shown between submitting an action and the first
streamed text.

StoryList (storylist.go) - The saved story picker.

ErrorBanner (error.go) - Dismissible banner for failed turns; the partial
narration stays in the transcript.

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	vp := components.NewStoryViewport(theme)
	vp.SetSize(width, height)
	vp.BeginExchange(transcript.Messages, len(transcript.Messages)-2)
	vp.StreamUpdate()
	cmd := vp.JumpToLatest()
*/
package components
