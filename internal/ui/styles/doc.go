// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the TrackBets TUI.

# Color System (colors.go)

Every color is an AdaptiveColor pair. Unlike lipgloss' own adaptive
resolution, a Theme picks the side explicitly, so the settings toggle can
switch between dark and light at runtime regardless of what the terminal
reports.

  - Bull / Bear - price direction, BUY and SELL verdicts
  - Gold        - brand accent, HOLD verdict, selected intent
  - Accent      - assistant highlights, focus ring
  - Surface*, Text* - layered backgrounds and text weights

# Theme (theme.go)

	theme := styles.NewTheme(styles.ModeAuto)
	theme.SetDark(false)
	header := theme.Header.Render("TrackBets")

# Animations (animations.go)

Spinner frame sets and an ASCII progress bar used by line mode.
*/
package styles
