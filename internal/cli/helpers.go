// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared plumbing for fable CLI command handlers.
//
// Every subcommand needs the same three things: loaded configuration,
// an API client pointed at the right server, and (sometimes) the local
// story archive. These helpers keep the handlers short.

package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fableforge/fable-tui/internal/api"
	"github.com/fableforge/fable-tui/internal/config"
	"github.com/fableforge/fable-tui/internal/storage"
)

// LoadConfig loads the fable configuration and applies CLI overrides.
// A missing config file is not an error; defaults are used.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if args.Server != "" {
		cfg.Server.URL = args.Server
	}
	return cfg, nil
}

// NewAPIClient builds a story server client from configuration.
func NewAPIClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.Server.URL, time.Duration(cfg.Server.RequestTimeoutSecs)*time.Second)
}

// OpenArchive opens the local story archive if archiving is enabled.
// Returns (nil, nil) when the archive is disabled in config.
func OpenArchive(cfg *config.Config) (*storage.Archive, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	path, err := cfg.ArchivePath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path, cfg.Archive.MaxStories)
}

// requestContext returns a context bounded by the configured request timeout.
func requestContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSecs)*time.Second)
}

// outputJSON writes v to stdout as indented JSON.
// Used by commands that support the --json flag.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError writes a styled error message to stderr.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", ErrorStyle.Render("[Error]"), err)
}

// promptConfirm asks a yes/no question on the terminal.
// Returns false when stdin is not a TTY or the answer is not yes.
func promptConfirm(question string) bool {
	if !CanPrompt() {
		return false
	}
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// formatCount formats a count with a singular/plural noun.
func formatCount(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
