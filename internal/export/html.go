// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/fableforge/fable-tui/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders the transcript as a self-contained HTML page.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export renders the transcript.
func (e *HTMLExporter) Export(t *model.Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}
	if len(t.Messages) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	title := html.EscapeString(storyTitle(t, e.options))

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", title))
	sb.WriteString("<style>\n")
	sb.WriteString(e.getCSS())
	sb.WriteString("</style>\n</head>\n<body>\n<main>\n")

	sb.WriteString(e.renderHeader(t, title))

	for _, msg := range t.Messages {
		if msg.IsStreaming {
			continue
		}
		sb.WriteString(e.renderMessage(msg))
	}

	sb.WriteString(fmt.Sprintf("<footer>Exported from fable on %s</footer>\n",
		time.Now().Format("January 2, 2006")))
	sb.WriteString("</main>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING
// =============================================================================

func (e *HTMLExporter) renderHeader(t *model.Transcript, title string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", title))
	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("<p class=\"meta\">Begun %s &middot; last played %s</p>\n",
			formatTimestamp(t.CreatedAt),
			formatTimestamp(t.UpdatedAt)))
	}
	return sb.String()
}

func (e *HTMLExporter) renderMessage(msg *model.Message) string {
	text := paragraphs(msg.Text)

	switch {
	case msg.Intro:
		return fmt.Sprintf("<section class=\"intro\">%s</section>\n", text)
	case msg.Role == model.RolePlayer:
		ts := ""
		if e.options.IncludeTimestamps {
			ts = fmt.Sprintf("<time>%s</time>", formatShortTimestamp(msg.Timestamp))
		}
		return fmt.Sprintf("<section class=\"player\">%s%s</section>\n", text, ts)
	default:
		return fmt.Sprintf("<section class=\"narrator\">%s</section>\n", text)
	}
}

// paragraphs escapes text and wraps blank-line separated blocks in <p>.
func paragraphs(text string) string {
	var sb strings.Builder
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(strings.ReplaceAll(html.EscapeString(block), "\n", "<br>"))
		sb.WriteString("</p>")
	}
	return sb.String()
}

func (e *HTMLExporter) getCSS() string {
	return `
body { margin: 0; background: #14121a; color: #e8e4da; font-family: Georgia, serif; line-height: 1.6; }
main { max-width: 42rem; margin: 0 auto; padding: 2rem 1rem 4rem; }
h1 { font-size: 1.6rem; border-bottom: 1px solid #3a3650; padding-bottom: .5rem; }
.meta { color: #8d8798; font-size: .85rem; }
section { margin: 1.2rem 0; }
.intro { font-style: italic; color: #d8c9a3; border-left: 3px solid #a8924f; padding-left: 1rem; }
.player { color: #9ec1e8; font-weight: bold; text-align: right; }
.player time { display: block; font-weight: normal; font-size: .75rem; color: #8d8798; }
.narrator { color: #e8e4da; }
footer { margin-top: 3rem; color: #8d8798; font-size: .8rem; font-style: italic; }
`
}
