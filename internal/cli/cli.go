// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for fable.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdPlay
	CmdStories
	CmdExport
	CmdConfig
	CmdStatus
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Server  string // Override server URL

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `fable - an interactive story in your terminal

Fable is a client for an AI interactive-fiction server. You type what
your character does; the narrator writes what happens next.

Usage:
  fable                      Start the TUI (default)
  fable play                 Plain terminal mode (no TUI)
  fable stories [subcommand] Saved story management
  fable export [flags]       Export an archived story
  fable config [show|get|set|path] Configuration
  fable status               Server and archive status
  fable version              Show version
  fable help                 Show this help

Story Commands:
  fable stories list                List saved stories
    --json                          Output as JSON
  fable stories show <id>           Print a story transcript
  fable stories delete <id>         Delete a story from the server
    --confirm                       Skip the confirmation prompt

Export Commands:
  fable export --story <id>         Export an archived story
    --format md|json|html           Output format (default: md)
    --output DIR                    Output directory (default: .)
    --preview                       Render to the terminal instead

Config Commands:
  fable config show                 Show full configuration
  fable config get <key>            Get one value (e.g. server.url)
  fable config set <key> <value>    Set one value
  fable config path                 Show config file location

Global Flags:
  --server URL    Override the story server URL
  --json          Machine-readable output where supported
  -q, --quiet     Minimal output
  -v, --verbose   Verbose output

Environment:
  FABLE_SERVER_URL   Overrides server.url
  NO_COLOR           Disables colored output

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("fable version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for testing.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(args)

	// No command defaults to the TUI.
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		parsed.Subcommand = remaining[0]
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "play", "chat":
		return CmdPlay, parsed

	case "stories", "story":
		return CmdStories, parsed

	case "export":
		return CmdExport, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "version", "--version", "-V":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		// Unknown command: show help rather than guessing.
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts flags that apply to every command.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	remaining := make([]string, 0, len(args))

	i := 0
	for i < len(args) {
		switch arg := args[i]; arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--server":
			if i+1 < len(args) {
				parsed.Server = args[i+1]
				i++
			}
		default:
			if strings.HasPrefix(arg, "--server=") {
				parsed.Server = strings.TrimPrefix(arg, "--server=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}

// parseConfigArgs pulls out key/value for config get/set.
func parseConfigArgs(parsed *Args, remaining []string) {
	positional := make([]string, 0, len(remaining))
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
		}
	}
	if len(positional) > 1 {
		parsed.ConfigKey = positional[1]
	}
	if len(positional) > 2 {
		parsed.ConfigVal = strings.Join(positional[2:], " ")
	}
}
