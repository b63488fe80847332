// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"
)

// =============================================================================
// SPINNER CONFIG TESTS
// =============================================================================

func TestSpinnerConfigs(t *testing.T) {
	spinners := []struct {
		name   string
		config SpinnerConfig
	}{
		{"DotsSpinner", DotsSpinner},
		{"LineSpinner", LineSpinner},
		{"PulseSpinner", PulseSpinner},
	}

	for _, s := range spinners {
		t.Run(s.name, func(t *testing.T) {
			if len(s.config.Frames) == 0 {
				t.Errorf("%s should have frames", s.name)
			}
			if s.config.FPS <= 0 {
				t.Errorf("%s FPS should be positive", s.name)
			}
		})
	}
}

func TestSpinnerConfigDuration(t *testing.T) {
	tests := []struct {
		name string
		fps  int
		want time.Duration
	}{
		{"6 FPS", 6, time.Second / 6},
		{"10 FPS", 10, time.Second / 10},
		{"8 FPS", 8, time.Second / 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := SpinnerConfig{FPS: tc.fps}
			got := config.Duration()
			if got != tc.want {
				t.Errorf("Duration() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLineSpinnerFrames(t *testing.T) {
	expected := []string{"|", "/", "-", "\\"}
	if len(LineSpinner.Frames) != len(expected) {
		t.Fatalf("LineSpinner should have %d frames, got %d", len(expected), len(LineSpinner.Frames))
	}
	for i, want := range expected {
		if LineSpinner.Frames[i] != want {
			t.Errorf("LineSpinner frame %d = %q, want %q", i, LineSpinner.Frames[i], want)
		}
	}
}

// =============================================================================
// EASING FUNCTION TESTS
// =============================================================================

func TestEasingEndpoints(t *testing.T) {
	funcs := []struct {
		name string
		fn   EasingFunc
	}{
		{"EaseLinear", EaseLinear},
		{"EaseInQuad", EaseInQuad},
		{"EaseOutQuad", EaseOutQuad},
		{"EaseInOutQuad", EaseInOutQuad},
		{"EaseOutCubic", EaseOutCubic},
	}

	for _, f := range funcs {
		t.Run(f.name, func(t *testing.T) {
			if got := f.fn(0); got != 0 {
				t.Errorf("%s(0) = %v, want 0", f.name, got)
			}
			if got := f.fn(1); got != 1 {
				t.Errorf("%s(1) = %v, want 1", f.name, got)
			}
		})
	}
}

func TestEasingMonotonic(t *testing.T) {
	funcs := []struct {
		name string
		fn   EasingFunc
	}{
		{"EaseLinear", EaseLinear},
		{"EaseInQuad", EaseInQuad},
		{"EaseOutQuad", EaseOutQuad},
		{"EaseInOutQuad", EaseInOutQuad},
		{"EaseOutCubic", EaseOutCubic},
	}

	for _, f := range funcs {
		t.Run(f.name, func(t *testing.T) {
			prev := f.fn(0)
			for i := 1; i <= 100; i++ {
				cur := f.fn(float64(i) / 100)
				if cur < prev {
					t.Fatalf("%s not monotonic at t=%v: %v < %v", f.name, float64(i)/100, cur, prev)
				}
				prev = cur
			}
		})
	}
}

func TestEaseOutQuadDecelerates(t *testing.T) {
	// An ease-out curve covers more than half its distance in the first half.
	if EaseOutQuad(0.5) <= 0.5 {
		t.Errorf("EaseOutQuad(0.5) = %v, want > 0.5", EaseOutQuad(0.5))
	}
	if EaseOutCubic(0.5) <= 0.5 {
		t.Errorf("EaseOutCubic(0.5) = %v, want > 0.5", EaseOutCubic(0.5))
	}
}

// =============================================================================
// TRANSITION TESTS
// =============================================================================

func TestDefaultTransitions(t *testing.T) {
	transitions := []struct {
		name   string
		config TransitionConfig
	}{
		{"TransitionFast", TransitionFast},
		{"TransitionNormal", TransitionNormal},
		{"TransitionSlow", TransitionSlow},
	}

	for _, tr := range transitions {
		t.Run(tr.name, func(t *testing.T) {
			if tr.config.Duration <= 0 {
				t.Errorf("%s duration should be positive", tr.name)
			}
			if tr.config.Easing == nil {
				t.Errorf("%s easing should be set", tr.name)
			}
		})
	}

	if TransitionFast.Duration >= TransitionNormal.Duration {
		t.Error("TransitionFast should be shorter than TransitionNormal")
	}
	if TransitionNormal.Duration >= TransitionSlow.Duration {
		t.Error("TransitionNormal should be shorter than TransitionSlow")
	}
}

func TestTypingCursor(t *testing.T) {
	if len(TypingCursor) != 2 {
		t.Errorf("TypingCursor should have 2 frames, got %d", len(TypingCursor))
	}
	if CursorBlinkRate <= 0 {
		t.Error("CursorBlinkRate should be positive")
	}
}
