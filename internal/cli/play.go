// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// play.go - Plain terminal story mode for the fable CLI.
//
// USABILITY: Readline-style input history for better CLI experience
//
// Handles the "fable play" command which provides a line-oriented REPL
// for playing a story without the full TUI. Narration streams to stdout
// as it arrives from the server.
//
// Command: play
// Aliases: chat
//
// Examples:
//   fable play                    Start a new story
//   fable play --server URL       Use a specific story server
//   fable -q play                 Suppress the banner and turn stats
//
// Interactive Commands (during play):
//   /help, /h           Show available commands
//   /new, /n            Start a new story
//   /stories            List saved stories on the server
//   /load <id>          Resume a saved story
//   /history            Show the transcript so far
//   /export [format]    Export the transcript (md, json, html)
//   /quit, /q           Exit
//   Ctrl+C              Cancel the current narration
//   Ctrl+D              Exit

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"golang.org/x/time/rate"

	"github.com/fableforge/fable-tui/internal/api"
	"github.com/fableforge/fable-tui/internal/config"
	"github.com/fableforge/fable-tui/internal/export"
	"github.com/fableforge/fable-tui/internal/model"
	"github.com/fableforge/fable-tui/internal/storage"
	"github.com/fableforge/fable-tui/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("140")).
			Bold(true)

	narrationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	introStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	cliWarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// PlayCLI provides input history and line editing for the play REPL.
// USABILITY: Supports arrow keys for history navigation and line editing.
type PlayCLI struct {
	line        *liner.State
	historyFile string
	maxHistory  int
}

// NewPlayCLI creates a PlayCLI with input history support.
func NewPlayCLI(historySize int) *PlayCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &PlayCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "history"),
		maxHistory:  historySize,
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *PlayCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
// Non-empty input is added to history.
func (c *PlayCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *PlayCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *PlayCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// PlaySession holds the state for a plain-terminal story session.
type PlaySession struct {
	Config  *config.Config
	Client  *api.Client
	Archive *storage.Archive // nil when archiving is disabled

	Transcript     *model.Transcript
	ConversationID int64

	Quiet     bool
	StartTime time.Time
	Turns     int

	// Cancel function for the in-flight narration stream
	CancelFunc context.CancelFunc

	// Submission limiter: one turn per second, small burst allowance.
	// Keeps a held-down Enter key from flooding the server.
	Limiter *rate.Limiter

	InputCLI *PlayCLI
}

// NewPlaySession creates a play session from parsed CLI arguments.
func NewPlaySession(args Args) (*PlaySession, error) {
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}

	archive, err := OpenArchive(cfg)
	if err != nil {
		// A broken archive should not block play; warn and continue.
		fmt.Fprintf(os.Stderr, "%s archive unavailable: %v\n",
			cliWarningStyle.Render("[Warning]"), err)
		archive = nil
	}

	return &PlaySession{
		Config:     cfg,
		Client:     NewAPIClient(cfg),
		Archive:    archive,
		Transcript: model.NewTranscriptWithIntro(cfg.UI.Intro),
		Quiet:      args.Quiet,
		StartTime:  time.Now(),
		Limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
		InputCLI:   NewPlayCLI(cfg.Input.HistorySize),
	}, nil
}

// =============================================================================
// PLAY HANDLER
// =============================================================================

// HandlePlay handles the "play" command: a line-oriented story REPL.
func HandlePlay(args Args) error {
	session, err := NewPlaySession(args)
	if err != nil {
		return err
	}
	defer func() {
		if session.Archive != nil {
			session.Archive.Close()
		}
	}()

	// Probe the server so connection problems surface before the first turn.
	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(session.Config.Server.HealthCheckSecs)*time.Second)
	healthErr := session.Client.CheckHealth(ctx)
	cancel()
	if healthErr != nil {
		fmt.Fprintf(os.Stderr, "%s story server unreachable at %s: %v\n",
			cliWarningStyle.Render("[Warning]"), session.Config.Server.URL, healthErr)
	}

	if !session.Quiet {
		printPlayWelcome(session)
	}

	// USABILITY: Save input history for future sessions
	defer session.InputCLI.Close()

	// First Ctrl+C during narration cancels the stream; at the prompt,
	// liner surfaces it as ErrPromptAborted.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		for range sigChan {
			if session.CancelFunc != nil {
				session.CancelFunc()
				session.CancelFunc = nil
			}
		}
	}()

	for {
		input, err := session.InputCLI.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C at the prompt or EOF (Ctrl+D): exit gracefully.
			fmt.Println()
			printPlaySummary(session)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, err := handlePlayCommand(input, session)
			if err != nil {
				printError(err)
			}
			if !keepGoing {
				printPlaySummary(session)
				return nil
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			printPlaySummary(session)
			return nil
		}

		if err := validateInput(input, session.Config.Input.MaxChars); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", cliWarningStyle.Render("[Warning]"), err)
			continue
		}

		if err := playTurn(session, input); err != nil {
			printError(err)
		}
	}
}

// =============================================================================
// TURN PROCESSING
// =============================================================================

// validateInput checks a player action before it touches the network.
// UNICODE: the limit is characters, not bytes.
func validateInput(input string, maxChars int) error {
	if strings.TrimSpace(input) == "" {
		return api.ErrEmptyInput
	}
	if n := len([]rune(input)); maxChars > 0 && n > maxChars {
		return fmt.Errorf("%w (%d chars, max %d)", api.ErrInputTooLong, n, maxChars)
	}
	return nil
}

// playTurn submits one player action and streams the narration to stdout.
func playTurn(session *PlaySession, input string) error {
	if err := session.Limiter.Wait(context.Background()); err != nil {
		return err
	}

	session.Transcript.BeginExchange(input)

	ctx, cancel := context.WithCancel(context.Background())
	session.CancelFunc = cancel
	defer func() {
		session.CancelFunc = nil
		cancel()
	}()

	startTime := time.Now()
	fmt.Println()

	result, err := session.Client.Generate(ctx, input, session.ConversationID, func(delta string) {
		session.Transcript.AppendToTail(delta)
		fmt.Print(narrationStyle.Render(delta))
	})

	fmt.Println()

	if err != nil {
		// The partial narration stays; a failed turn is never rolled back.
		session.Transcript.SettleTail()
		if errors.Is(err, context.Canceled) {
			fmt.Println(hintStyle.Render("[narration interrupted]"))
			fmt.Println()
			return nil
		}
		fmt.Println()
		return err
	}

	// The streamed text was provisional; the transcript keeps the
	// authoritative version even though the screen shows what streamed.
	session.Transcript.FinalizeTail(result.Text)
	if result.ConversationID != 0 {
		// The header is optional; a missing id must not fork the story.
		session.ConversationID = result.ConversationID
	}
	session.Turns++

	if session.Archive != nil {
		if err := session.Archive.SaveStory(session.Transcript, session.ConversationID); err != nil {
			fmt.Fprintf(os.Stderr, "%s archive save failed: %v\n",
				cliWarningStyle.Render("[Warning]"), err)
		}
	}

	if !session.Quiet {
		fmt.Printf("%s story %d | %s\n",
			hintStyle.Render("[Turn]"),
			session.ConversationID,
			time.Since(startTime).Round(time.Millisecond))
	}
	fmt.Println()

	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handlePlayCommand processes slash commands.
// Returns (keepGoing, error) where keepGoing=false means exit.
func handlePlayCommand(cmd string, session *PlaySession) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true, nil
	}

	command := strings.ToLower(parts[0])
	cmdArgs := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printPlayHelp()
		return true, nil

	case "/new", "/n":
		session.Transcript = model.NewTranscriptWithIntro(session.Config.UI.Intro)
		session.ConversationID = 0
		fmt.Println(commandStyle.Render("[New story started]"))
		if intro := session.Config.UI.Intro; intro != "" {
			fmt.Println()
			fmt.Println(introStyle.Render(WrapText(intro, GetTerminalWidth())))
			fmt.Println()
		}
		return true, nil

	case "/stories", "/list":
		return true, printServerStories(session)

	case "/load", "/l":
		if len(cmdArgs) == 0 {
			return true, fmt.Errorf("usage: /load <id>")
		}
		id, err := strconv.ParseInt(cmdArgs[0], 10, 64)
		if err != nil {
			return true, fmt.Errorf("invalid story id: %s", cmdArgs[0])
		}
		return true, loadServerStory(session, id)

	case "/history":
		printPlayHistory(session)
		return true, nil

	case "/export", "/e":
		format := "md"
		if len(cmdArgs) > 0 {
			format = strings.ToLower(cmdArgs[0])
		}
		return true, exportPlayTranscript(session, format)

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// printServerStories lists the saved stories on the server.
func printServerStories(session *PlaySession) error {
	ctx, cancel := requestContext(session.Config)
	defer cancel()

	stories, err := session.Client.ListStories(ctx)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		fmt.Println(hintStyle.Render("[No saved stories]"))
		return nil
	}

	fmt.Println()
	for _, s := range stories {
		updated := util.ParseServerTime(s.UpdatedAt)
		fmt.Printf("  %s  %s, %s\n",
			commandStyle.Render(fmt.Sprintf("%4d", s.ID)),
			formatCount(s.MessageCount, "message", "messages"),
			hintStyle.Render(util.FormatRelative(updated, time.Now())))
	}
	fmt.Println()
	fmt.Println(hintStyle.Render("Resume with /load <id>"))
	fmt.Println()
	return nil
}

// loadServerStory fetches a saved story and rebuilds the local transcript.
func loadServerStory(session *PlaySession, id int64) error {
	ctx, cancel := requestContext(session.Config)
	defer cancel()

	story, err := session.Client.GetStory(ctx, id)
	if err != nil {
		return err
	}

	t := model.NewTranscript()
	for _, m := range story.Messages {
		var msg *model.Message
		switch model.Role(m.Role) {
		case model.RolePlayer:
			msg = model.NewPlayerMessage(m.Text)
		default:
			msg = model.NewMessage(model.RoleNarrator, m.Text)
		}
		msg.ServerID = m.ID
		if ts := util.ParseServerTime(m.CreatedAt); !ts.IsZero() {
			msg.Timestamp = ts
		}
		t.Append(msg)
	}

	session.Transcript = t
	session.ConversationID = story.Meta.ID

	fmt.Printf("%s story %d (%s)\n",
		commandStyle.Render("[Loaded]"), id,
		formatCount(t.Len(), "message", "messages"))
	fmt.Println()

	// Reprint the tail so the player has context to continue from.
	if last := t.Last(); last != nil && last.Role == model.RoleNarrator {
		fmt.Println(narrationStyle.Render(WrapText(last.Text, GetTerminalWidth())))
		fmt.Println()
	}
	return nil
}

// printPlayHistory prints the transcript so far.
func printPlayHistory(session *PlaySession) {
	history := session.Transcript.History()
	if len(history) == 0 {
		fmt.Println(hintStyle.Render("[No story yet]"))
		return
	}

	fmt.Println()
	for _, msg := range history {
		label := promptStyle.Render("you")
		if msg.Role == model.RoleNarrator {
			label = bannerStyle.Render("narrator")
		}
		fmt.Printf("  %s: %s\n", label, msg.Preview(100))
	}
	fmt.Println()
}

// exportPlayTranscript writes the current transcript to the working directory.
func exportPlayTranscript(session *PlaySession, format string) error {
	if session.Transcript.IsEmpty() {
		return fmt.Errorf("nothing to export yet")
	}

	opts := export.DefaultOptions()

	var exporter export.Exporter
	switch format {
	case "md", "markdown":
		exporter = export.NewMarkdownExporter(opts)
	case "json":
		exporter = export.NewJSONExporter(opts)
	case "html":
		exporter = export.NewHTMLExporter(opts)
	default:
		return fmt.Errorf("unknown format: %s (md, json, html)", format)
	}
	path, err := export.ExportToFile(session.Transcript, exporter, opts)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", commandStyle.Render("[Exported]"), path)
	return nil
}

// =============================================================================
// DISPLAY FUNCTIONS
// =============================================================================

// printPlayWelcome prints the opening banner and intro narration.
func printPlayWelcome(session *PlaySession) {
	fmt.Println()
	fmt.Println(bannerStyle.Render("fable"))
	fmt.Println(hintStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n",
		hintStyle.Render("Server:"),
		commandStyle.Render(session.Config.Server.URL))
	if session.Archive != nil {
		fmt.Printf("%s %s\n",
			hintStyle.Render("Archive:"),
			commandStyle.Render("enabled"))
	}
	fmt.Println()
	fmt.Println(hintStyle.Render("Type what your character does and press Enter. Commands: /help, /quit"))
	fmt.Println()

	if intro := session.Config.UI.Intro; intro != "" {
		fmt.Println(introStyle.Render(WrapText(intro, GetTerminalWidth())))
		fmt.Println()
	}
}

// printPlayHelp prints available slash commands.
func printPlayHelp() {
	fmt.Println()
	fmt.Println(bannerStyle.Render("Commands"))
	fmt.Println(hintStyle.Render(strings.Repeat("─", 20)))
	fmt.Println()

	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/new, /n", "Start a new story"},
		{"/stories", "List saved stories on the server"},
		{"/load <id>", "Resume a saved story"},
		{"/history", "Show the transcript so far"},
		{"/export [format]", "Export the story (md, json, html)"},
		{"/quit, /q", "Exit"},
	}

	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%-17s", c.cmd)),
			hintStyle.Render(c.desc))
	}

	fmt.Println()
	fmt.Println(hintStyle.Render("Tip: Ctrl+C interrupts the narrator, Ctrl+D exits"))
	fmt.Println()
}

// printPlaySummary prints the session summary on exit.
func printPlaySummary(session *PlaySession) {
	if session.Turns == 0 {
		fmt.Println(hintStyle.Render("The story waits for another day."))
		return
	}

	elapsed := time.Since(session.StartTime).Round(time.Second)

	fmt.Println()
	fmt.Printf("%s %s over %s",
		hintStyle.Render("Played"),
		formatCount(session.Turns, "turn", "turns"),
		elapsed)
	if session.ConversationID != 0 {
		fmt.Printf(" %s", hintStyle.Render(fmt.Sprintf("(story %d)", session.ConversationID)))
	}
	fmt.Println()
	fmt.Println(hintStyle.Render("The story waits for another day."))
}
