// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"go.uber.org/zap"

	"github.com/jeranaias/trackbets-tui/internal/assistant"
	"github.com/jeranaias/trackbets-tui/internal/flow"
	"github.com/jeranaias/trackbets-tui/internal/loading"
	"github.com/jeranaias/trackbets-tui/internal/loop"
	"github.com/jeranaias/trackbets-tui/internal/session"
	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

// LineOptions controls one line-mode analysis.
type LineOptions struct {
	Ticker string
	Intent flow.Intent

	// Prompt asks for the intent (when unset) and the intake fields.
	Prompt bool

	// Chat opens the analyst REPL after the report.
	Chat bool

	Out   io.Writer
	Width int
}

// RunLine walks one cycle without the full-screen UI: intent and form by
// prompt (or flags), a text progress bar while the sequencer runs, the
// report, then the analyst chat.
func RunLine(ctx context.Context, rt *Runtime, opts LineOptions) error {
	if opts.Width <= 0 {
		opts.Width = ReportWidth()
	}

	intent := opts.Intent
	if intent == flow.IntentNone {
		intent = flow.IntentTrack
		if opts.Prompt {
			var err error
			if intent, err = promptIntent(); err != nil {
				return err
			}
		}
	}

	form := flow.IntakeForm{flow.TickerKey: opts.Ticker}
	if opts.Prompt {
		if err := promptForm(intent, form); err != nil {
			return err
		}
	}
	if err := form.Validate(); err != nil {
		return fmt.Errorf("%w (pass it as an argument)", err)
	}

	l := loop.NewLoop(loop.DefaultBuffer)
	defer l.Close()

	progress := &progressPrinter{out: opts.Out, width: min(opts.Width-30, 40)}
	var orch *flow.Orchestrator
	orch = flow.New(flow.Options{
		Fetcher: rt.Analysis,
		Poster:  l,
		NewSequencer: func() flow.Sequencer {
			return loading.New(rt.Config.Loading.Schedule())
		},
		NewSession: func(q assistant.Quote) *session.Session {
			return session.New(q, rt.Assistant, l, session.Config{Logger: rt.Logger})
		},
		OnChange: func() {
			if orch.State() == flow.StateLoading {
				progress.update(orch.Progress(), orch.StageLabel())
			}
		},
		Logger: rt.Logger,
	})
	defer orch.Shutdown()

	if err := orch.SelectIntent(intent); err != nil {
		return err
	}
	if err := orch.SubmitIntake(form); err != nil {
		return err
	}

	progress.update(0, orch.StageLabel())
	err := l.RunUntil(ctx, func() bool { return orch.State() == flow.StateDetail })
	progress.finish()
	if err != nil {
		return err
	}

	fmt.Fprintln(opts.Out, DimStyle.Render("Fetching live analysis..."))
	if err := l.RunUntil(ctx, func() bool { return orch.Result().Settled() }); err != nil {
		return err
	}
	rt.Logger.Info("line mode analysis", zap.String("ticker", orch.Ticker()), zap.Stringer("kind", orch.Result().Kind))

	fmt.Fprintln(opts.Out)
	if err := printReport(opts.Out, orch.Result(), opts.Width); err != nil {
		return err
	}
	if sess := orch.Session(); sess != nil {
		printInsights(opts.Out, sess.Insights(), opts.Width)
	}

	if !opts.Chat || orch.Session() == nil {
		return nil
	}

	fmt.Fprintln(opts.Out)
	in := NewChatCLI()
	defer in.Close()
	repl := &chatREPL{orch: orch, loop: l, in: in, out: opts.Out, width: opts.Width}
	return repl.run(ctx)
}

// =============================================================================
// PROMPTS
// =============================================================================

func promptIntent() (flow.Intent, error) {
	options := make([]string, len(flow.Intents))
	for i, in := range flow.Intents {
		options[i] = fmt.Sprintf("%s - %s", in.Label(), in.Description())
	}

	var idx int
	prompt := &survey.Select{
		Message: "What are you looking to do?",
		Options: options,
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return flow.IntentNone, err
	}
	return flow.Intents[idx], nil
}

// promptForm asks for every intake field; a ticker already in form becomes
// the default.
func promptForm(intent flow.Intent, form flow.IntakeForm) error {
	for _, f := range flow.IntakeFields(intent) {
		var answer string
		prompt := &survey.Input{
			Message: f.Label + ":",
			Help:    f.Placeholder,
			Default: form[f.Key],
		}
		var opts []survey.AskOpt
		if f.Required {
			opts = append(opts, survey.WithValidator(func(val interface{}) error {
				if flow.NormalizeTicker(val.(string)) == "" {
					return errors.New("ticker symbol cannot be empty")
				}
				return nil
			}))
		}
		if err := survey.AskOne(prompt, &answer, opts...); err != nil {
			return err
		}
		form[f.Key] = strings.TrimSpace(answer)
	}
	return nil
}

// =============================================================================
// PROGRESS
// =============================================================================

// progressPrinter redraws a one-line bar in place.
type progressPrinter struct {
	out   io.Writer
	width int
	last  string
	drawn bool
}

func (p *progressPrinter) update(percent float64, label string) {
	line := fmt.Sprintf("[%s] %3.0f%% %s",
		styles.RenderProgressBar(max(p.width, 10), percent), percent, label)
	if line == p.last {
		return
	}
	p.last = line
	p.drawn = true
	fmt.Fprintf(p.out, "\r\033[K%s", line)
}

func (p *progressPrinter) finish() {
	if p.drawn {
		fmt.Fprintln(p.out)
	}
}
