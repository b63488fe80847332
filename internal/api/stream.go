// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the fable story server.
package api

import (
	"bytes"
	"context"
	"io"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// STREAM FRAMING
// =============================================================================

const (
	// Sentinel delimits the streamed provisional text from the authoritative
	// final text that follows it in the response body.
	Sentinel = "<END>"

	// BreakToken marks a paragraph boundary inside the authoritative text.
	BreakToken = " <BREAK> "

	// ParagraphSep is what a break token becomes in rendered text.
	ParagraphSep = "\n\n"

	// readBufferSize is the chunk size for body reads.
	readBufferSize = 4096
)

// DeltaFunc is called for each provisional text fragment as it arrives.
// Deltas concatenated equal the pre-sentinel text exactly, independent of
// how the network chunked the body.
type DeltaFunc func(delta string)

// ExpandBreaks replaces every break token with a paragraph separator.
func ExpandBreaks(s string) string {
	return strings.ReplaceAll(s, BreakToken, ParagraphSep)
}

// =============================================================================
// STREAM READER
// =============================================================================

// StreamReader consumes a chunked response body and splits it into
// provisional deltas and an authoritative final text.
//
// The body is a raw UTF-8 byte stream, not line- or event-framed: a chunk
// boundary may fall inside a multi-byte rune, inside the sentinel, or inside
// a break token. The reader holds back undecided trailing bytes (those that
// could still be the start of the sentinel, or an incomplete rune) and only
// emits them once it is certain they are plain text.
type StreamReader struct {
	reader io.Reader

	// pending holds received pre-sentinel bytes not yet emitted.
	pending []byte

	// PERFORMANCE: strings.Builder avoids quadratic allocations
	emitted       strings.Builder // provisional text emitted so far
	authoritative bytes.Buffer    // bytes after the sentinel

	sentinelSeen bool
}

// NewStreamReader creates a stream reader over a response body.
// The caller retains ownership of the reader and must close it; the
// StreamReader never closes what it did not open.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{reader: r}
}

// Process reads the stream to completion, invoking callback for each
// provisional delta, and returns the final text:
//   - sentinel path: the authoritative post-sentinel text with break tokens
//     expanded to paragraph separators;
//   - no-sentinel path: the concatenation of all deltas.
//
// Blocks until EOF or context cancellation. On error the text accumulated so
// far is returned alongside the error so callers can keep partial progress.
func (s *StreamReader) Process(ctx context.Context, callback DeltaFunc) (string, error) {
	buf := make([]byte, readBufferSize)

	for {
		select {
		case <-ctx.Done():
			return s.partialText(), ctx.Err()
		default:
		}

		n, err := s.reader.Read(buf)
		if n > 0 {
			s.consume(buf[:n], callback)
		}
		if err != nil {
			if err == io.EOF {
				return s.finish(callback), nil
			}
			return s.partialText(), err
		}
	}
}

// consume routes one chunk of body bytes.
func (s *StreamReader) consume(chunk []byte, callback DeltaFunc) {
	if s.sentinelSeen {
		s.authoritative.Write(chunk)
		return
	}

	s.pending = append(s.pending, chunk...)

	if idx := bytes.Index(s.pending, []byte(Sentinel)); idx >= 0 {
		s.emit(s.pending[:idx], callback)
		s.authoritative.Write(s.pending[idx+len(Sentinel):])
		s.pending = nil
		s.sentinelSeen = true
		return
	}

	// Emit everything that can no longer be the start of the sentinel or the
	// tail of a split rune.
	hold := holdbackLen(s.pending)
	if emitLen := len(s.pending) - hold; emitLen > 0 {
		s.emit(s.pending[:emitLen], callback)
		s.pending = append(s.pending[:0:0], s.pending[emitLen:]...)
	}
}

// emit delivers a provisional delta.
func (s *StreamReader) emit(b []byte, callback DeltaFunc) {
	if len(b) == 0 {
		return
	}
	delta := string(b)
	s.emitted.WriteString(delta)
	if callback != nil {
		callback(delta)
	}
}

// finish flushes held-back bytes and returns the final text.
func (s *StreamReader) finish(callback DeltaFunc) string {
	if !s.sentinelSeen {
		// EOF without sentinel: the held bytes are plain text after all.
		s.emit(s.pending, callback)
		s.pending = nil
		return s.emitted.String()
	}
	return ExpandBreaks(s.authoritative.String())
}

// partialText returns the best text available mid-stream, for the
// "show partial progress" failure policy.
func (s *StreamReader) partialText() string {
	if s.sentinelSeen && s.authoritative.Len() > 0 {
		return ExpandBreaks(s.authoritative.String())
	}
	return s.emitted.String()
}

// SentinelSeen reports whether the end sentinel has been observed.
func (s *StreamReader) SentinelSeen() bool {
	return s.sentinelSeen
}

// Accumulated returns all provisional text emitted so far.
func (s *StreamReader) Accumulated() string {
	return s.emitted.String()
}

// =============================================================================
// HOLD-BACK WINDOW
// =============================================================================

// holdbackLen returns how many trailing bytes of p must be withheld from
// emission: the longest suffix that is a proper prefix of the sentinel, plus
// any incomplete trailing UTF-8 sequence before it.
func holdbackLen(p []byte) int {
	hold := sentinelPrefixLen(p)
	hold += incompleteRuneLen(p[:len(p)-hold])
	return hold
}

// sentinelPrefixLen returns the length of the longest suffix of p that is a
// proper prefix of the sentinel. Such a suffix might be completed into the
// full sentinel by the next chunk.
func sentinelPrefixLen(p []byte) int {
	max := len(Sentinel) - 1
	if len(p) < max {
		max = len(p)
	}
	for l := max; l > 0; l-- {
		if bytes.HasSuffix(p, []byte(Sentinel[:l])) {
			return l
		}
	}
	return 0
}

// incompleteRuneLen returns the number of trailing bytes of p that form the
// beginning of a multi-byte rune whose continuation has not arrived yet.
func incompleteRuneLen(p []byte) int {
	if len(p) == 0 {
		return 0
	}

	// Walk back at most UTFMax-1 bytes to the last rune start.
	start := len(p) - 1
	for lookback := 0; start > 0 && lookback < utf8.UTFMax-1; lookback++ {
		if !isContinuationByte(p[start]) {
			break
		}
		start--
	}

	b := p[start]
	if isContinuationByte(b) {
		// Orphaned continuation bytes: invalid UTF-8, nothing to wait for.
		return 0
	}

	want := expectedRuneLen(b)
	if have := len(p) - start; have < want {
		return have
	}
	return 0
}

// isContinuationByte reports whether b is a UTF-8 continuation byte.
func isContinuationByte(b byte) bool {
	return b&0xC0 == 0x80
}

// expectedRuneLen returns the encoded length implied by a leading byte.
func expectedRuneLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		// Invalid leading byte; emit as-is and let the renderer show U+FFFD.
		return 1
	}
}
