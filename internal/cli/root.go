// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/trackbets-tui/internal/flow"
)

// NewRootCmd builds the trackbets command tree.
func NewRootCmd(version string) *cobra.Command {
	var opts GlobalOptions

	rootCmd := &cobra.Command{
		Use:   "trackbets",
		Short: "TrackBets - AI market analysis in your terminal",
		Long: `TrackBets pulls a live analysis for a ticker, shows the verdict, chart and
insights, and lets you question an AI analyst about it.

Without a subcommand it opens the full-screen interface. When stdout is not a
terminal, or with --plain, it falls back to line mode.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := Bootstrap(opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if opts.Plain || !IsStdoutTTY() {
				if !CanPrompt() {
					return &TTYRequiredError{Operation: "choose a ticker", Hint: analyzeHint}
				}
				return RunLine(cmd.Context(), rt, LineOptions{
					Prompt: true,
					Chat:   true,
					Out:    cmd.OutOrStdout(),
				})
			}
			return RunTUI(cmd.Context(), rt, version)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.trackbets/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "log at debug level")
	rootCmd.PersistentFlags().BoolVar(&opts.Plain, "plain", false, "use line mode instead of the full-screen UI")

	rootCmd.AddCommand(newAnalyzeCmd(&opts))
	rootCmd.AddCommand(newConfigCmd(&opts))
	rootCmd.AddCommand(newVersionCmd(version))

	return rootCmd
}

func newAnalyzeCmd(opts *GlobalOptions) *cobra.Command {
	var (
		intent string
		noChat bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [TICKER]",
		Short: "Analyze one ticker in line mode",
		Long: `Run one analysis without the full-screen interface and print the report.
Missing values are prompted for when stdin is a terminal.

Example: trackbets analyze TSLA --intent buy`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo := LineOptions{
				Chat: CanPrompt() && !noChat,
				Out:  cmd.OutOrStdout(),
			}
			if len(args) == 1 {
				lo.Ticker = args[0]
			}
			if intent != "" {
				parsed, err := flow.ParseIntent(intent)
				if err != nil {
					return err
				}
				lo.Intent = parsed
			}
			// prompt only for what the command line left out
			lo.Prompt = CanPrompt() && (lo.Ticker == "" || lo.Intent == flow.IntentNone)
			if lo.Ticker == "" && !lo.Prompt {
				return &TTYRequiredError{Operation: "prompt for a ticker", Hint: analyzeHint}
			}

			rt, err := Bootstrap(*opts)
			if err != nil {
				return err
			}
			defer rt.Close()
			return RunLine(cmd.Context(), rt, lo)
		},
	}
	cmd.Flags().StringVar(&intent, "intent", "", "buy, sell or track")
	cmd.Flags().BoolVar(&noChat, "no-chat", false, "exit after printing the report")
	return cmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "TrackBets v%s\n", version)
		},
	}
}
