// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fableforge/fable-tui/internal/model"
	"github.com/fableforge/fable-tui/internal/ui/styles"
)

// =============================================================================
// STORY VIEWPORT COMPONENT - Scrollable transcript with follow mode
// =============================================================================

// nearBottomLines is how close to the bottom (in lines) still counts as
// "at bottom" for follow purposes. A reader parked a line or two up from
// the end has not meaningfully scrolled away.
const nearBottomLines = 3

// scrollAnimFPS is the frame rate of the animated jump-to-latest scroll.
const scrollAnimFPS = 30

// scrollMsPerLine scales the jump animation with distance; short hops stay
// snappy while long ones are bounded by TransitionSlow.
const scrollMsPerLine = 8 * time.Millisecond

// ScrollTickMsg advances the animated scroll by one frame.
type ScrollTickMsg time.Time

// StoryViewport is the scrollable transcript area. While the reader is at
// the bottom it follows new content: when an exchange begins, the viewport
// aligns the newest messages to the top of the visible area so the incoming
// narration streams downward from there. Once the reader scrolls away,
// follow mode disengages and a jump-to-latest affordance appears.
type StoryViewport struct {
	viewport    viewport.Model
	messages    []*model.Message
	width       int
	height      int
	ready       bool
	follow      bool
	theme       *styles.Theme
	messageList *MessageList

	scrollY    int
	maxScrollY int

	// Eased scroll animation state
	animActive   bool
	animFromY    int
	animToY      int
	animStart    time.Time
	animDuration time.Duration
	animCfg      styles.TransitionConfig
}

// NewStoryViewport creates a viewport that starts in follow mode.
func NewStoryViewport(theme *styles.Theme) *StoryViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	return &StoryViewport{
		viewport:    vp,
		messages:    []*model.Message{},
		width:       80,
		height:      20,
		follow:      true,
		theme:       theme,
		animCfg:     styles.TransitionNormal,
		messageList: NewMessageList(theme),
	}
}

// SetSize updates the viewport dimensions.
func (sv *StoryViewport) SetSize(width, height int) {
	sv.width = width
	sv.height = height
	sv.viewport.Width = width - 2
	sv.viewport.Height = height
	sv.messageList.SetWidth(width - 4)
	sv.ready = true

	sv.refreshContent()
}

// SetShowTimestamps toggles per-message timestamps.
func (sv *StoryViewport) SetShowTimestamps(show bool) {
	sv.messageList.ShowTimestamps = show
	sv.refreshContent()
}

// SetMessages replaces the transcript, e.g. when resuming a saved story.
// The viewport snaps to the bottom and re-engages follow mode.
func (sv *StoryViewport) SetMessages(messages []*model.Message) {
	sv.messages = messages
	sv.messageList.SetMessages(messages)
	sv.refreshContent()
	sv.snapToBottom()
}

// BeginExchange is called when a player action and its narration placeholder
// are appended. If the reader was at the bottom, the viewport aligns the
// start of the new exchange to the top of the visible area so the narration
// has room to stream downward. A reader who has scrolled away is left alone.
func (sv *StoryViewport) BeginExchange(messages []*model.Message, exchangeStart int) {
	wasFollowing := sv.follow || sv.nearBottom()

	sv.messages = messages
	sv.messageList.SetMessages(messages)
	sv.refreshContent()

	if wasFollowing {
		sv.alignMessageTop(exchangeStart)
		sv.follow = true
	}
}

// StreamUpdate re-renders after a streaming delta. The scroll anchor is
// preserved: content grows below the aligned exchange without moving it.
func (sv *StoryViewport) StreamUpdate() {
	sv.refreshContent()
}

// refreshContent re-renders the transcript and updates scroll bounds while
// preserving the current offset.
func (sv *StoryViewport) refreshContent() {
	content := sv.messageList.View()

	wrapped := wrapContentForViewport(content, sv.width-2)
	sv.viewport.SetContent(wrapped)

	lines := strings.Count(wrapped, "\n") + 1
	sv.maxScrollY = maxInt(0, lines-sv.height)

	if sv.scrollY > sv.maxScrollY {
		sv.scrollY = sv.maxScrollY
	}
	if sv.scrollY < 0 {
		sv.scrollY = 0
	}
	sv.viewport.SetYOffset(sv.scrollY)
}

// alignMessageTop scrolls so message i starts at the top of the viewport.
func (sv *StoryViewport) alignMessageTop(i int) {
	target := sv.messageList.StartLine(i)
	if target > sv.maxScrollY {
		target = sv.maxScrollY
	}
	if target < 0 {
		target = 0
	}
	sv.scrollY = target
	sv.viewport.SetYOffset(target)
}

// nearBottom reports whether the reader is within the follow threshold.
func (sv *StoryViewport) nearBottom() bool {
	return sv.maxScrollY-sv.scrollY <= nearBottomLines
}

// AtBottom returns true if the viewport is exactly at the bottom.
func (sv *StoryViewport) AtBottom() bool {
	return sv.scrollY >= sv.maxScrollY
}

// Following reports whether follow mode is engaged.
func (sv *StoryViewport) Following() bool {
	return sv.follow
}

// snapToBottom jumps to the bottom without animation.
func (sv *StoryViewport) snapToBottom() {
	sv.scrollY = sv.maxScrollY
	sv.viewport.SetYOffset(sv.scrollY)
	sv.follow = true
}

// ScrollToBottom jumps to the bottom without animation.
func (sv *StoryViewport) ScrollToBottom() {
	sv.snapToBottom()
}

// ScrollToTop scrolls to the top and disengages follow mode.
func (sv *StoryViewport) ScrollToTop() {
	sv.viewport.GotoTop()
	sv.scrollY = 0
	sv.follow = false
	sv.animActive = false
}

// ScrollUp scrolls up and disengages follow mode.
func (sv *StoryViewport) ScrollUp(lines int) {
	sv.follow = false
	sv.animActive = false
	sv.scrollY = maxInt(0, sv.scrollY-lines)
	sv.viewport.SetYOffset(sv.scrollY)
}

// ScrollDown scrolls down, re-engaging follow mode at the bottom.
func (sv *StoryViewport) ScrollDown(lines int) {
	sv.scrollY = minInt(sv.maxScrollY, sv.scrollY+lines)
	sv.viewport.SetYOffset(sv.scrollY)
	if sv.nearBottom() {
		sv.follow = true
	}
}

// JumpToLatest starts an eased scroll to the newest content. Pressing it
// repeatedly while already at the bottom is a no-op.
func (sv *StoryViewport) JumpToLatest() tea.Cmd {
	target := sv.latestTarget()
	if sv.scrollY == target {
		sv.follow = true
		return nil
	}
	if sv.animActive && sv.animToY == target {
		return nil
	}

	sv.animActive = true
	sv.animFromY = sv.scrollY
	sv.animToY = target
	sv.animStart = time.Now()
	sv.animDuration = scrollDuration(target - sv.scrollY)
	return scrollTick()
}

// scrollDuration derives the animation length from the distance travelled,
// clamped between the fast and slow transition presets.
func scrollDuration(lines int) time.Duration {
	if lines < 0 {
		lines = -lines
	}
	d := time.Duration(lines) * scrollMsPerLine
	if d < styles.TransitionFast.Duration {
		d = styles.TransitionFast.Duration
	}
	if d > styles.TransitionSlow.Duration {
		d = styles.TransitionSlow.Duration
	}
	return d
}

// latestTarget is the offset that aligns the newest exchange to the top,
// falling back to the bottom when the tail content is shorter than a page.
func (sv *StoryViewport) latestTarget() int {
	if len(sv.messages) == 0 {
		return 0
	}

	// Find the start of the last exchange: the final player message, or the
	// last message when the transcript ends with narration only.
	start := len(sv.messages) - 1
	for i := len(sv.messages) - 1; i >= 0; i-- {
		if sv.messages[i].Role == model.RolePlayer {
			start = i
			break
		}
	}

	target := sv.messageList.StartLine(start)
	if target > sv.maxScrollY {
		target = sv.maxScrollY
	}
	return maxInt(0, target)
}

func scrollTick() tea.Cmd {
	return tea.Tick(time.Second/scrollAnimFPS, func(t time.Time) tea.Msg {
		return ScrollTickMsg(t)
	})
}

// advanceAnimation moves the eased scroll one frame and returns the next
// tick command, or nil when the animation has finished.
func (sv *StoryViewport) advanceAnimation() tea.Cmd {
	if !sv.animActive {
		return nil
	}

	elapsed := time.Since(sv.animStart)
	progress := float64(elapsed) / float64(sv.animDuration)
	if progress >= 1 {
		sv.animActive = false
		sv.scrollY = sv.animToY
		sv.viewport.SetYOffset(sv.scrollY)
		sv.follow = true
		return nil
	}

	eased := sv.animCfg.Easing(progress)
	sv.scrollY = sv.animFromY + int(float64(sv.animToY-sv.animFromY)*eased)
	sv.viewport.SetYOffset(sv.scrollY)
	return scrollTick()
}

// Update handles key, mouse, and animation messages.
func (sv *StoryViewport) Update(msg tea.Msg) (*StoryViewport, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case ScrollTickMsg:
		return sv, sv.advanceAnimation()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			sv.ScrollUp(1)
			return sv, nil
		case "down", "j":
			sv.ScrollDown(1)
			return sv, nil
		case "pgup":
			sv.ScrollUp(sv.height)
			return sv, nil
		case "pgdn", "pgdown":
			sv.ScrollDown(sv.height)
			return sv, nil
		case "home", "g":
			sv.ScrollToTop()
			return sv, nil
		case "end", "G":
			return sv, sv.JumpToLatest()
		}

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			sv.ScrollUp(3)
			return sv, nil
		case tea.MouseWheelDown:
			sv.ScrollDown(3)
			return sv, nil
		}
	}

	sv.viewport, cmd = sv.viewport.Update(msg)
	sv.scrollY = sv.viewport.YOffset

	return sv, cmd
}

// View renders the viewport with the jump-to-latest affordance when the
// reader has scrolled away from the newest content.
func (sv *StoryViewport) View() string {
	if !sv.ready {
		return ""
	}

	var result strings.Builder
	result.WriteString(sv.viewport.View())

	if indicator := sv.renderJumpIndicator(); indicator != "" {
		result.WriteString("\n")
		result.WriteString(indicator)
	}

	return result.String()
}

// renderJumpIndicator renders the jump-to-latest pill when not at bottom.
func (sv *StoryViewport) renderJumpIndicator() string {
	if sv.AtBottom() {
		return ""
	}

	lineStyle := lipgloss.NewStyle().
		Width(sv.width).
		Align(lipgloss.Center)

	pill := sv.theme.JumpToLatest.Render("v latest (End)")

	pos := ""
	if sv.maxScrollY > 0 {
		pos = sv.theme.ScrollIndicator.Render(
			fmt.Sprintf(" [%d/%d]", sv.scrollY+1, sv.maxScrollY+1))
	}

	return lineStyle.Render(pill + pos)
}

// GetScrollY returns the current scroll offset.
func (sv *StoryViewport) GetScrollY() int {
	return sv.scrollY
}

// GetMaxScrollY returns the maximum scroll offset.
func (sv *StoryViewport) GetMaxScrollY() int {
	return sv.maxScrollY
}

// =============================================================================
// CONTENT WRAPPING WITH RUNEWIDTH SUPPORT
// =============================================================================

// wrapContentForViewport wraps content to the given display width.
// UNICODE: go-runewidth keeps CJK text and emoji from overflowing the pane.
func wrapContentForViewport(content string, width int) string {
	if width <= 0 {
		return content
	}

	var wrapped strings.Builder
	for i, line := range strings.Split(content, "\n") {
		if i > 0 {
			wrapped.WriteByte('\n')
		}
		if runewidth.StringWidth(line) <= width {
			wrapped.WriteString(line)
			continue
		}
		wrapped.WriteString(hardWrap(line, width))
	}

	return wrapped.String()
}

// hardWrap breaks a single overlong line at display-width boundaries,
// preferring the last space when one is close enough.
func hardWrap(line string, width int) string {
	var result strings.Builder
	var current strings.Builder
	currentWidth := 0

	flush := func() {
		if result.Len() > 0 {
			result.WriteByte('\n')
		}
		result.WriteString(strings.TrimRight(current.String(), " "))
		current.Reset()
		currentWidth = 0
	}

	for _, r := range line {
		w := runewidth.RuneWidth(r)
		if currentWidth+w > width && currentWidth > 0 {
			flush()
			if r == ' ' {
				continue
			}
		}
		current.WriteRune(r)
		currentWidth += w
	}
	if current.Len() > 0 {
		flush()
	}

	return result.String()
}
