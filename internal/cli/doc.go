// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the fable command-line interface: argument
// parsing, the plain-terminal play mode, and the non-interactive
// subcommands (stories, export, config, status).
//
// # Key Types
//
//   - Command: enum of top-level commands returned by Parse
//   - Args: parsed global flags and subcommand arguments
//   - ArgParser: generic flag/positional parsing for subcommands
//   - PlaySession: state for the line-oriented play REPL
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdPlay:
//	    err = cli.HandlePlay(args)
//	case cli.CmdStories:
//	    err = cli.HandleStories(args)
//	}
//
// The full-screen TUI lives in internal/ui; this package only covers
// what runs outside it. Styled output honors NO_COLOR and falls back
// to plain text when stdout is not a terminal.
package cli
