// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/trackbets-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Shortcut is one key hint.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders key hints on the left and a status message on the right.
type StatusBar struct {
	Shortcuts []Shortcut
	Message   string
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the bar. Shortcuts that do not fit are dropped from the end.
func (s *StatusBar) View() string {
	t := s.theme
	inner := s.Width - t.StatusBar.GetHorizontalFrameSize()
	right := t.ShortcutDesc.Render(s.Message)
	budget := inner - lipgloss.Width(right) - 1

	var parts []string
	used := 0
	for _, sc := range s.Shortcuts {
		part := t.ShortcutKey.Render(sc.Key) + t.ShortcutDesc.Render(" "+sc.Desc)
		w := lipgloss.Width(part)
		if len(parts) > 0 {
			w += 2
		}
		if used+w > budget {
			break
		}
		parts = append(parts, part)
		used += w
	}
	left := strings.Join(parts, t.ShortcutDesc.Render("  "))

	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return t.StatusBar.Width(max(s.Width, 0)).Render(left + t.ShortcutDesc.Render(strings.Repeat(" ", gap)) + right)
}
