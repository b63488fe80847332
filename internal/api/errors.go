// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

// Sentinel errors for local validation and stream failures.
// Validation errors are raised before any network traffic; none of these
// trigger an automatic retry.
var (
	// ErrEmptyInput means the input was empty after trimming.
	ErrEmptyInput = errors.New("input is empty")

	// ErrInputTooLong means the input exceeded the configured maximum length.
	ErrInputTooLong = errors.New("input too long")

	// ErrNoBody means the server responded without a readable body.
	ErrNoBody = errors.New("response has no body")

	// ErrStoryNotFound means the requested conversation does not exist.
	ErrStoryNotFound = errors.New("story not found")
)

// APIError represents a non-2xx response from the story server.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

// Is allows a 404 APIError to match ErrStoryNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrStoryNotFound && e.Status == 404
}

// StreamError wraps an error that occurred mid-stream, preserving the
// provisional text received before the failure. The caller keeps the partial
// text on screen; nothing is rolled back.
type StreamError struct {
	Partial string
	Err     error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial text received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether resubmitting the same input could plausibly
// succeed. Used only for the suggestion text shown to the user; the client
// never retries on its own.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrInputTooLong) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}
