// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the fable application.
package util

import (
	"strconv"
	"time"
)

// serverTimeLayouts are the timestamp shapes the backend emits, tried in
// order. The server sends naive ISO 8601 with or without fractional seconds.
var serverTimeLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
}

// ParseServerTime parses a backend timestamp string.
// Returns the zero time when the string is empty or unparseable.
func ParseServerTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range serverTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatRelative renders a timestamp as a short relative age ("3m", "2h",
// "5d") for list views. Absolute date for anything older than a month.
func FormatRelative(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + "h"
	case d < 30*24*time.Hour:
		return strconv.Itoa(int(d.Hours()/24)) + "d"
	default:
		return t.Format("2006-01-02")
	}
}
