// TrackBets TUI - AI market analysis in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/trackbets-tui/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "2.0.1"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	version := Version
	if GitCommit != "unknown" {
		version += " (" + GitCommit + ")"
	}

	// cobra prints the error itself
	if err := cli.NewRootCmd(version).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
