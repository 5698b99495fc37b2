// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/trackbets-tui/internal/config"
	"github.com/jeranaias/trackbets-tui/internal/ui/app"
)

// RunTUI starts the full-screen program and, when a config file is in use,
// a watcher that forwards edits to it. It returns when the program exits.
func RunTUI(ctx context.Context, rt *Runtime, version string) error {
	m := app.New(app.Deps{
		Config:    rt.Config,
		Fetcher:   rt.Analysis,
		Assistant: rt.Assistant,
		Profile:   rt.Profile,
		Logger:    rt.Logger,
		Version:   version,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()

	if rt.ConfigPath != "" {
		g.Go(func() error {
			err := config.Watch(watchCtx, rt.ConfigPath, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
				p.Send(app.ConfigChangedMsg{Config: cfg, Err: err})
			})
			if err != nil {
				// the UI runs fine without live reload
				rt.Logger.Warn("config watcher stopped", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		defer stopWatch()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	return g.Wait()
}
