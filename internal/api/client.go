// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// SHARED HTTP CLIENTS
// =============================================================================

// sharedTransport pools connections across requests.
// Streaming requests get no client-level timeout; a generation legitimately
// runs for as long as the narrator keeps typing. Cancellation and deadlines
// come from the request context.
var sharedTransport = &http.Transport{
	MaxIdleConns:        10,
	MaxIdleConnsPerHost: 4,
	IdleConnTimeout:     90 * time.Second,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

var sharedStreamingClient = &http.Client{
	Transport: sharedTransport,
}

// ConversationIDHeader carries the server-assigned conversation id.
const ConversationIDHeader = "X-Conversation-ID"

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the fable story server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:5000". requestTimeout applies to non-streaming calls
// only; zero means no timeout.
func NewClient(baseURL string, requestTimeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   requestTimeout,
		},
	}
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// GENERATE (STREAMING)
// =============================================================================

// generateRequest is the JSON body for POST /generate.
type generateRequest struct {
	Input          string `json:"input"`
	ConversationID int64  `json:"conversation_id,omitempty"`
}

// GenerateResult is the outcome of one completed generation.
type GenerateResult struct {
	// Text is the final narrative: the authoritative post-sentinel text with
	// paragraph breaks expanded, or the concatenated deltas if the stream
	// ended without a sentinel.
	Text string

	// ConversationID is the id echoed (or newly assigned) by the server.
	// Zero when the server sent no id header.
	ConversationID int64

	// SentinelSeen reports whether the end sentinel was observed.
	SentinelSeen bool
}

// Generate sends the player's input and streams the narrative response.
// The callback runs for each provisional delta, in order, from this
// goroutine. Blocks until the stream completes, fails, or ctx is cancelled.
//
// On mid-stream failure the partial text is preserved inside the returned
// *StreamError; the result is nil.
func (c *Client) Generate(ctx context.Context, input string, conversationID int64, callback DeltaFunc) (*GenerateResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	reqBody := generateRequest{
		Input:          strings.TrimSpace(input),
		ConversationID: conversationID,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")

	resp, err := sharedStreamingClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, handleErrorResponse(resp.StatusCode, body)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, ErrNoBody
	}

	convID := parseConversationID(resp.Header.Get(ConversationIDHeader))

	reader := NewStreamReader(resp.Body)
	text, err := reader.Process(ctx, callback)
	if err != nil {
		return nil, &StreamError{Partial: text, Err: err}
	}

	return &GenerateResult{
		Text:           text,
		ConversationID: convID,
		SentinelSeen:   reader.SentinelSeen(),
	}, nil
}

// =============================================================================
// GENERATE (CHANNEL)
// =============================================================================

// StreamEvent is one event from a channel-based generation.
// Exactly one terminal event is sent: Result or Err set.
type StreamEvent struct {
	Delta  string
	Result *GenerateResult
	Err    error
}

// GenerateStream is the channel form of Generate, for consumers that drain
// at their own pace. The channel is closed after the terminal event.
func (c *Client) GenerateStream(ctx context.Context, input string, conversationID int64) <-chan StreamEvent {
	events := make(chan StreamEvent, 64)

	go func() {
		defer close(events)

		result, err := c.Generate(ctx, input, conversationID, func(delta string) {
			select {
			case events <- StreamEvent{Delta: delta}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			select {
			case events <- StreamEvent{Err: err}:
			case <-ctx.Done():
			}
			return
		}
		select {
		case events <- StreamEvent{Result: result}:
		case <-ctx.Done():
		}
	}()

	return events
}

// =============================================================================
// STORY CRUD
// =============================================================================

// StoryMeta describes a server-side conversation in listings.
type StoryMeta struct {
	ID           int64  `json:"id"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	MessageCount int    `json:"message_count"`
}

// StoryMessage is one persisted message of a conversation.
type StoryMessage struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	Role           string `json:"role"`
	Text           string `json:"text"`
	CreatedAt      string `json:"created_at"`
}

// Story is a conversation with its ordered messages.
type Story struct {
	Meta     StoryMeta
	Messages []StoryMessage
}

// ListStories fetches recent conversations from the server.
func (c *Client) ListStories(ctx context.Context) ([]StoryMeta, error) {
	var payload struct {
		Conversations []StoryMeta `json:"conversations"`
	}
	if err := c.getJSON(ctx, "/conversations", &payload); err != nil {
		return nil, err
	}
	return payload.Conversations, nil
}

// GetStory fetches one conversation with its messages, oldest first.
func (c *Client) GetStory(ctx context.Context, id int64) (*Story, error) {
	var payload struct {
		Conversation StoryMeta      `json:"conversation"`
		Messages     []StoryMessage `json:"messages"`
	}
	if err := c.getJSON(ctx, "/conversations/"+strconv.FormatInt(id, 10), &payload); err != nil {
		return nil, err
	}
	return &Story{Meta: payload.Conversation, Messages: payload.Messages}, nil
}

// DeleteStory deletes a conversation and all its messages.
func (c *Client) DeleteStory(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/conversations/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return handleErrorResponse(resp.StatusCode, body)
	}
	return nil
}

// CheckHealth probes the server's health endpoint.
func (c *Client) CheckHealth(ctx context.Context) error {
	var payload struct {
		Status string `json:"status"`
	}
	return c.getJSON(ctx, "/health", &payload)
}

// =============================================================================
// HELPERS
// =============================================================================

// getJSON performs a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return handleErrorResponse(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// handleErrorResponse converts a non-2xx response into an *APIError,
// extracting the server's error message when the body is the usual
// {"error": "..."} JSON shape.
func handleErrorResponse(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = payload.Error
	} else if len(body) > 0 {
		message = strings.TrimSpace(string(body))
	}
	return &APIError{Status: status, Message: message}
}

// parseConversationID parses the id header; zero when absent or malformed.
func parseConversationID(raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
