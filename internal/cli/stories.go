// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// stories.go - Saved story management for the fable CLI.
//
// Handles the "fable stories" command and its subcommands against the
// story server.
//
// Command: stories
// Aliases: story
//
// Examples:
//   fable stories list            List saved stories
//   fable stories list --json     List as JSON
//   fable stories show 12         Print the transcript of story 12
//   fable stories delete 12       Delete story 12 (with confirmation)
//   fable stories delete 12 --confirm

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fableforge/fable-tui/internal/api"
	"github.com/fableforge/fable-tui/internal/config"
	"github.com/fableforge/fable-tui/internal/model"
	"github.com/fableforge/fable-tui/internal/util"
)

// HandleStories dispatches the stories subcommands.
func HandleStories(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client := NewAPIClient(cfg)

	parser := NewArgParser(args.Raw)
	switch parser.Subcommand() {
	case "", "list", "ls":
		return handleStoriesList(cfg, client, args)
	case "show", "cat":
		return handleStoriesShow(cfg, client, args, parser)
	case "delete", "rm":
		return handleStoriesDelete(cfg, client, parser)
	default:
		return fmt.Errorf("unknown stories subcommand: %s (list, show, delete)", parser.Subcommand())
	}
}

// handleStoriesList lists saved stories on the server.
func handleStoriesList(cfg *config.Config, client *api.Client, args Args) error {
	ctx, cancel := requestContext(cfg)
	defer cancel()

	stories, err := client.ListStories(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(stories)
	}

	if len(stories) == 0 {
		fmt.Println(DimStyle.Render("No saved stories."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Saved Stories"))
	for _, s := range stories {
		updated := util.ParseServerTime(s.UpdatedAt)
		fmt.Printf("  %s  %-14s %s\n",
			HighlightStyle.Render(fmt.Sprintf("%4d", s.ID)),
			formatCount(s.MessageCount, "message", "messages"),
			DimStyle.Render(util.FormatRelative(updated, time.Now())))
	}
	fmt.Println()
	fmt.Println(DimStyle.Render("Show one with: fable stories show <id>"))
	return nil
}

// handleStoriesShow prints a full story transcript.
func handleStoriesShow(cfg *config.Config, client *api.Client, args Args, parser *ArgParser) error {
	id, err := storyIDArg(parser)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cfg)
	defer cancel()

	story, err := client.GetStory(ctx, id)
	if err != nil {
		return err
	}

	if args.JSON {
		return outputJSON(story)
	}

	updated := util.ParseServerTime(story.Meta.UpdatedAt)
	fmt.Println(TitleStyle.Render(fmt.Sprintf("Story %d", story.Meta.ID)))
	fmt.Printf("%s %s\n",
		RenderLabel("Last played:"),
		ValueStyle.Render(util.FormatRelative(updated, time.Now())))
	fmt.Printf("%s %s\n",
		RenderLabel("Messages:"),
		ValueStyle.Render(strconv.Itoa(len(story.Messages))))
	fmt.Println()

	width := GetTerminalWidth()
	for _, m := range story.Messages {
		if model.Role(m.Role) == model.RolePlayer {
			fmt.Println(HighlightStyle.Render("> " + m.Text))
		} else {
			fmt.Println(WrapText(m.Text, width))
		}
		fmt.Println()
	}
	return nil
}

// handleStoriesDelete removes a story from the server.
func handleStoriesDelete(cfg *config.Config, client *api.Client, parser *ArgParser) error {
	id, err := storyIDArg(parser)
	if err != nil {
		return err
	}

	if !parser.BoolFlag("confirm") && !parser.BoolFlag("yes") {
		if !promptConfirm(fmt.Sprintf("Delete story %d? This cannot be undone.", id)) {
			fmt.Println(DimStyle.Render("Cancelled."))
			return nil
		}
	}

	ctx, cancel := requestContext(cfg)
	defer cancel()

	if err := client.DeleteStory(ctx, id); err != nil {
		return err
	}

	fmt.Printf("%s Story %d deleted.\n", SuccessStyle.Render("[OK]"), id)
	return nil
}

// storyIDArg extracts the story id positional argument.
func storyIDArg(parser *ArgParser) (int64, error) {
	raw := parser.Positional(1)
	if raw == "" {
		return 0, fmt.Errorf("missing story id (see: fable stories list)")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid story id: %s", raw)
	}
	return id, nil
}
