// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration management for the fable CLI.
//
// Handles the "fable config" command and its subcommands.
//
// Examples:
//   fable config show               Show full configuration
//   fable config get server.url     Get one value
//   fable config set ui.theme light Set one value (persisted)
//   fable config path               Show the config file location

package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fableforge/fable-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		return handleConfigPath()
	default:
		return fmt.Errorf("unknown config subcommand: %s (show, get, set, path)", args.Subcommand)
	}
}

// handleConfigShow prints every resolvable config key and its value.
func handleConfigShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(cfg)
	}

	fmt.Println(TitleStyle.Render("fable configuration"))
	for _, key := range config.GetAllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("  %s %v\n", RenderLabel(key+":", 28), value)
	}
	return nil
}

// handleConfigGet prints a single config value.
func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return fmt.Errorf("usage: fable config get <key> (e.g. server.url)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	value, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return err
	}

	fmt.Printf("%v\n", value)
	return nil
}

// handleConfigSet updates a single config value and saves the file.
func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return fmt.Errorf("usage: fable config set <key> <value>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Boolean keys accept the friendlier spellings too (yes/no, on/off).
	value := args.ConfigVal
	if current, err := cfg.Get(args.ConfigKey); err == nil {
		if _, isBool := current.(bool); isBool {
			b, err := ParseBoolString(value)
			if err != nil {
				return err
			}
			value = strconv.FormatBool(b)
		}
	}

	if err := cfg.Set(args.ConfigKey, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("rejected: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, value)
	return nil
}

// handleConfigPath prints the config file location and whether it exists.
func handleConfigPath() error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}

	fmt.Println(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(DimStyle.Render("(not created yet; defaults are in effect)"))
	}
	return nil
}
