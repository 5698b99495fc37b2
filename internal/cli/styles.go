// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

// init matches lipgloss to the terminal, honoring NO_COLOR and FORCE_COLOR.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR LINE MODE
// =============================================================================

var (
	// TitleStyle is used for the ticker heading
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Gold)

	// SectionStyle is used for report section headers
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimary).
			MarginTop(1)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(12)

	// ValueStyle is used for regular values and text
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	UpStyle   = lipgloss.NewStyle().Foreground(styles.Bull)
	DownStyle = lipgloss.NewStyle().Foreground(styles.Bear)

	// ErrorStyle is used for error messages
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Bear).
			Bold(true)

	// WarningStyle marks simulated data
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Warn).
			Bold(true)

	// DimStyle is used for hints
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// PromptStyle is the chat prompt
	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Accent).
			Bold(true)

	// AnalystStyle prefixes assistant replies
	AnalystStyle = lipgloss.NewStyle().
			Foreground(styles.Gold).
			Bold(true)
)

// signalStyle colors a verdict signal.
func signalStyle(signal string) lipgloss.Style {
	switch signal {
	case "BUY", "STRONG BUY":
		return UpStyle.Bold(true)
	case "SELL", "STRONG SELL":
		return DownStyle.Bold(true)
	}
	return TitleStyle
}
