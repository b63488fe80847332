// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the fable TUI.

This package defines the color palette, theme catalog, and animation helpers
used throughout the application. All colors use Lip Gloss AdaptiveColor for
automatic light/dark terminal detection.

# Color System (colors.go)

Message bubbles use semantic color tokens per story role:

	PlayerBubbleBg/Fg    - The player's typed actions
	NarratorBubbleBg/Fg  - Narration returned by the story engine
	IntroBubbleBg/Fg     - The seeded opening narration

Surface and text colors form a layered system (Surface, SurfaceDim, Overlay;
TextPrimary, TextSecondary, TextMuted, TextInverse).

# Theme System (theme.go)

The Theme struct is built once at startup and resized as the terminal changes:

	theme := styles.NewTheme(cfg.UI.Theme) // "dark", "light", or "auto"
	theme.SetSize(width, height)
	switch theme.GetLayoutMode() {
	case styles.LayoutNarrow:
		// under 60 columns
	}

# Animation System (animations.go)

Spinners (DotsSpinner, LineSpinner, PulseSpinner) indicate in-flight
narration. Easing functions (EaseOutQuad, EaseOutCubic) drive the animated
jump-to-latest scroll; TransitionNormal is the default scroll transition.

# Accessibility

RenderSuccess, RenderError, RenderWarning, and RenderInfo pair high contrast
colors with ASCII shape indicators so state is never conveyed by color alone.
*/
package styles
