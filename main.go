// fable - An interactive story in your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fableforge/fable-tui/internal/cli"
	"github.com/fableforge/fable-tui/internal/config"
	"github.com/fableforge/fable-tui/internal/ui/story"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)

	case cli.CmdPlay:
		exitOn(cli.HandlePlay(args))

	case cli.CmdStories:
		exitOn(cli.HandleStories(args))

	case cli.CmdExport:
		exitOn(cli.HandleExport(args))

	case cli.CmdConfig:
		exitOn(cli.HandleConfig(args))

	case cli.CmdStatus:
		exitOn(cli.HandleStatus(args))

	case cli.CmdVersion:
		cli.PrintVersion()

	case cli.CmdHelp:
		cli.PrintUsage()

	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// exitOn prints err to stderr and exits non-zero if err is non-nil.
func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the full-screen story interface.
func runTUI(args cli.Args) {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := cli.NewAPIClient(cfg)

	// The archive is optional; the story plays fine without local saves.
	var archiver story.Archiver
	archive, err := cli.OpenArchive(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: archive unavailable: %v\n", err)
	} else if archive != nil {
		defer archive.Close()
		archiver = archive
	}

	m := story.NewModel(cfg, client, archiver, Version)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support for scrolling
	)

	// Hot-reload render parameters when the config file changes.
	watcher, err := config.NewWatcher(500*time.Millisecond, func(cfg *config.Config) {
		p.Send(story.ConfigReloadedMsg{Config: cfg})
	})
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running fable: %v\n", err)
		os.Exit(1)
	}
}
