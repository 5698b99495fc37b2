// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/trackbets-tui/internal/config"
	"github.com/jeranaias/trackbets-tui/internal/flow"
	"github.com/jeranaias/trackbets-tui/internal/loop"
	"github.com/jeranaias/trackbets-tui/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the analyst chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads ~/.trackbets/chat_history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation. Non-blank input is
// added to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history with 0600 permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// lineReader is the part of ChatCLI the REPL uses.
type lineReader interface {
	ReadInput(prompt string) (string, error)
}

// chatREPL runs the analyst conversation for the detail screen of orch.
// Commands: /insights regenerates the insight pair, /retry refetches the
// analysis, /report reprints it, exit or quit leaves.
type chatREPL struct {
	orch  *flow.Orchestrator
	loop  *loop.Loop
	in    lineReader
	out   io.Writer
	width int
}

func (r *chatREPL) run(ctx context.Context) error {
	fmt.Fprintln(r.out, DimStyle.Render("Ask the analyst anything. /insights, /retry, /report, exit."))
	if sess := r.orch.Session(); sess != nil {
		if last, ok := lastMessage(sess); ok {
			fmt.Fprintln(r.out, AnalystStyle.Render("Analyst: ")+last)
		}
	}

	for {
		input, err := r.in.ReadInput(PromptStyle.Render(r.orch.Ticker() + "> "))
		if err != nil {
			// ctrl+c, ctrl+d and EOF all end the chat
			fmt.Fprintln(r.out)
			return nil
		}
		input = strings.TrimSpace(input)

		switch {
		case input == "":
			continue
		case strings.EqualFold(input, "exit"), strings.EqualFold(input, "quit"), input == "/exit":
			return nil
		case input == "/insights":
			err = r.regenerate(ctx)
		case input == "/retry":
			err = r.retry(ctx)
		case input == "/report":
			err = printReport(r.out, r.orch.Result(), r.width)
		case strings.HasPrefix(input, "/"):
			fmt.Fprintln(r.out, ErrorStyle.Render("Unknown command: ")+input)
			continue
		default:
			err = r.ask(ctx, input)
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintln(r.out, ErrorStyle.Render("[Error] ")+err.Error())
		}
	}
}

func (r *chatREPL) ask(ctx context.Context, question string) error {
	sess := r.orch.Session()
	if sess == nil {
		return errors.New("the analyst is not available")
	}
	if err := sess.Send(question); err != nil {
		return err
	}
	if err := r.loop.RunUntil(ctx, func() bool { return !sess.ReplyPending() }); err != nil {
		return err
	}
	last, _ := lastMessage(sess)
	fmt.Fprintln(r.out, AnalystStyle.Render("Analyst: ")+wrap(last, r.width))
	return nil
}

func (r *chatREPL) regenerate(ctx context.Context) error {
	sess := r.orch.Session()
	if sess == nil {
		return errors.New("the analyst is not available")
	}
	if err := sess.RegenerateInsights(); err != nil && !errors.Is(err, session.ErrRegenerating) {
		return err
	}
	if err := r.loop.RunUntil(ctx, func() bool { return !sess.Regenerating() }); err != nil {
		return err
	}
	printInsights(r.out, sess.Insights(), r.width)
	return nil
}

func (r *chatREPL) retry(ctx context.Context) error {
	if err := r.orch.Retry(); err != nil {
		return err
	}
	if err := r.loop.RunUntil(ctx, func() bool { return r.orch.Result().Settled() }); err != nil {
		return err
	}
	return printReport(r.out, r.orch.Result(), r.width)
}

func lastMessage(sess *session.Session) (string, bool) {
	h := sess.History()
	if len(h) == 0 {
		return "", false
	}
	return h[len(h)-1].Text, true
}
