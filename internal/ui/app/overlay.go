// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/jeranaias/trackbets-tui/internal/util"
)

func (m Model) viewOverlay() string {
	switch m.overlay {
	case overlaySettings:
		return m.viewSettings()
	case overlayProfile:
		return m.viewProfile()
	}
	return ""
}

func (m Model) viewSettings() string {
	t := m.theme
	theme := "light"
	if t.IsDark {
		theme = "dark"
	}

	rows := [][2]string{
		{"Theme", theme},
		{"Analysis API", m.deps.Config.Analysis.BaseURL},
		{"Model", m.deps.Config.Assistant.Model},
	}
	if m.deps.Assistant == nil {
		rows = append(rows, [2]string{"Assistant", "disabled (no API key)"})
	}

	var sb strings.Builder
	sb.WriteString(t.OverlayTitle.Render("Settings"))
	sb.WriteString("\n\n")
	for _, r := range rows {
		sb.WriteString(t.Muted.Render(util.PadRight(r[0], 14)))
		sb.WriteString(util.Truncate(r[1], 40))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(t.Muted.Render("t toggles the theme"))
	if m.deps.Version != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Muted.Render("TrackBets v" + m.deps.Version))
	}
	return t.OverlayBox.Render(sb.String())
}

func (m Model) viewProfile() string {
	t := m.theme
	var sb strings.Builder
	sb.WriteString(t.OverlayTitle.Render("Profile"))
	sb.WriteString("\n\n")

	switch {
	case m.profile.Verified:
		sb.WriteString(t.Up.Render("Verified"))
		if m.profile.Email != "" {
			sb.WriteString(" as " + m.profile.Email)
		}
		sb.WriteString("\n\n")
		sb.WriteString(t.Muted.Render("ctrl+o signs out"))

	case m.verifying:
		sb.WriteString(t.Typing.Render("Verifying " + strings.TrimSpace(m.emailInput.Value()) + "..."))

	default:
		sb.WriteString(t.Subtitle.Render("Verify your email to unlock saved preferences."))
		sb.WriteString("\n\n")
		sb.WriteString(m.emailInput.View())
		if m.profile.Email != "" && m.emailInput.Value() == "" {
			sb.WriteString("\n")
			sb.WriteString(t.Muted.Render("Last used: " + m.profile.Email))
		}
		if m.profileErr != "" {
			sb.WriteString("\n\n")
			sb.WriteString(t.Error.Render(m.profileErr))
		}
	}
	return t.OverlayBox.Render(sb.String())
}
