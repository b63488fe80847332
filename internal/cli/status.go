// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Environment status for the fable CLI.
//
// Handles the "fable status" command which reports server reachability,
// configuration, the local archive, and terminal capabilities.
//
// Examples:
//   fable status
//   fable status --json
//   fable status --server http://example:5000

package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fableforge/fable-tui/internal/config"
)

// statusReport is the machine-readable shape of the status command.
type statusReport struct {
	Version        string   `json:"version"`
	ServerURL      string   `json:"server_url"`
	ServerOnline   bool     `json:"server_online"`
	ServerError    string   `json:"server_error,omitempty"`
	ConfigPath     string   `json:"config_path"`
	ArchiveEnabled bool     `json:"archive_enabled"`
	ArchivePath    string   `json:"archive_path,omitempty"`
	ArchiveCount   int      `json:"archive_count"`
	RecentStories  []string `json:"recent_stories,omitempty"`
}

// HandleStatus dispatches the status command.
func HandleStatus(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	report := statusReport{
		Version:        Version,
		ServerURL:      cfg.Server.URL,
		ArchiveEnabled: cfg.Archive.Enabled,
	}

	if path, err := config.ConfigPathTOML(); err == nil {
		report.ConfigPath = path
	}

	// Server reachability
	client := NewAPIClient(cfg)
	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.HealthCheckSecs)*time.Second)
	healthErr := client.CheckHealth(ctx)
	cancel()
	report.ServerOnline = healthErr == nil
	if healthErr != nil {
		report.ServerError = healthErr.Error()
	}

	// Local archive
	if cfg.Archive.Enabled {
		if path, err := cfg.ArchivePath(); err == nil {
			report.ArchivePath = path
		}
		if archive, err := OpenArchive(cfg); err == nil && archive != nil {
			if n, err := archive.Count(); err == nil {
				report.ArchiveCount = n
			}
			report.RecentStories = listArchivePreviews(archive, 5)
			archive.Close()
		}
	}

	if args.JSON {
		return outputJSON(report)
	}

	printStatusReport(report)
	return nil
}

// printStatusReport renders the human-readable status output.
func printStatusReport(r statusReport) {
	fmt.Println(TitleStyle.Render("fable status"))

	fmt.Println(SectionStyle.Render("Server"))
	fmt.Printf("  %s %s\n", RenderLabel("URL:"), ValueStyle.Render(r.ServerURL))
	if r.ServerOnline {
		fmt.Printf("  %s %s\n", RenderLabel("Status:"), RenderStatus("online"))
	} else {
		fmt.Printf("  %s %s %s\n", RenderLabel("Status:"), RenderStatus("offline"),
			DimStyle.Render(r.ServerError))
	}

	fmt.Println(SectionStyle.Render("Configuration"))
	fmt.Printf("  %s %s\n", RenderLabel("File:"), ValueStyle.Render(r.ConfigPath))

	fmt.Println(SectionStyle.Render("Archive"))
	if !r.ArchiveEnabled {
		fmt.Printf("  %s %s\n", RenderLabel("Status:"), DimStyle.Render("disabled"))
	} else {
		fmt.Printf("  %s %s\n", RenderLabel("Path:"), ValueStyle.Render(r.ArchivePath))
		fmt.Printf("  %s %s\n", RenderLabel("Stories:"), ValueStyle.Render(strconv.Itoa(r.ArchiveCount)))
		for _, line := range r.RecentStories {
			fmt.Printf("  %s\n", DimStyle.Render(line))
		}
	}

	fmt.Println(SectionStyle.Render("Terminal"))
	caps := GetTerminalCapabilities()
	fmt.Printf("  %s %s\n", RenderLabel("TTY:"), ValueStyle.Render(strconv.FormatBool(caps.IsTTY)))
	fmt.Printf("  %s %s\n", RenderLabel("Colors:"), ValueStyle.Render(strconv.FormatBool(caps.ColorsEnabled)))
	fmt.Printf("  %s %s\n", RenderLabel("Width:"), ValueStyle.Render(strconv.Itoa(caps.Width)))
}
